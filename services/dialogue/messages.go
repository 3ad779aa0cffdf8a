package dialogue

import (
	"fmt"
	"strings"

	"citaflow/models"
)

// User-facing texts for every turn of the flow. Kept together so the
// wording can be reviewed (and eventually localized) in one place.

const (
	msgAskStudentID = "¡Hola! 👋 Con gusto te ayudo a agendar una cita.\n\nPor favor indícame el *número de documento del estudiante* 🪪"

	msgTimeout = "⏰ Tu sesión expiró por inactividad. Escribe *agendar* para iniciar de nuevo."

	msgAborted = "✅ Proceso cancelado. Escríbeme cuando quieras retomarlo."

	msgGenericError = "😓 Ocurrió un error inesperado. Por favor intenta de nuevo."

	msgInvalidTimeFormat = "❌ Indica una hora válida, por ejemplo *02:00 PM* o *14:00*."

	msgInvalidEmail = "❌ El correo no parece válido. Por favor escríbelo de nuevo (ejemplo: nombre@correo.com)."

	msgAskCancelID = "Para cancelar una cita, indícame el *número de documento del estudiante* 🪪"
)

func msgStudentNotFound(attempt, max int) string {
	return fmt.Sprintf("❌ No encontré un estudiante con ese documento. Verifica el número e intenta de nuevo. (Intento %d de %d)", attempt, max)
}

func msgRetryExceeded() string {
	return "❌ Superaste el número de intentos permitidos. Escribe *agendar* cuando quieras iniciar de nuevo."
}

func msgNoTeachers(studentName string) string {
	return fmt.Sprintf("⚠️ El estudiante *%s* no tiene docentes asignados. Por favor comunícate con la institución.", studentName)
}

func msgTeacherList(student models.Student) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Estudiante: *%s*\n", student.Name)
	if student.Grade != "" {
		fmt.Fprintf(&b, "Grado: %s", student.Grade)
		if student.Course != "" {
			fmt.Fprintf(&b, " - Curso: %s", student.Course)
		}
		if student.Shift != "" {
			fmt.Fprintf(&b, " - Jornada: %s", student.Shift)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n¿Con qué docente deseas la cita? 👩‍🏫\n\n")
	for i, t := range student.Teachers {
		fmt.Fprintf(&b, "*%d.* %s (%s)\n", i+1, t.Name, t.Subject)
	}
	b.WriteString("\nResponde con el *número* o el *nombre* del docente.")
	return b.String()
}

func msgTeacherRetry(attempt, max int, teachers []models.TeacherRef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ No identifiqué a ese docente. (Intento %d de %d)\n\n", attempt, max)
	for i, t := range teachers {
		fmt.Fprintf(&b, "*%d.* %s (%s)\n", i+1, t.Name, t.Subject)
	}
	b.WriteString("\nResponde con el *número* o el *nombre* del docente.")
	return b.String()
}

func msgTeacherMisconfigured(name string) string {
	return fmt.Sprintf("⚠️ El docente *%s* no está configurado correctamente en el sistema. Por favor comunícate con la institución.", name)
}

func msgModalityPrompt(teacherName string, modalities []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¿Qué modalidad prefieres para la cita con *%s*?\n\n", teacherName)
	for i, m := range modalities {
		fmt.Fprintf(&b, "*%d.* %s\n", i+1, m)
	}
	b.WriteString("\nResponde con el *número* o el *nombre* de la modalidad.")
	return b.String()
}

func msgModalityRetry(attempt, max int, modalities []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ No identifiqué esa modalidad. (Intento %d de %d)\n\n", attempt, max)
	for i, m := range modalities {
		fmt.Fprintf(&b, "*%d.* %s\n", i+1, m)
	}
	return b.String()
}

func msgNoDates(teacherName string) string {
	return fmt.Sprintf("⚠️ El docente *%s* no tiene fechas disponibles en las próximas semanas. Por favor comunícate con la institución.", teacherName)
}

func msgDates(teacherName, modality string, dates []models.AvailableDate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Fechas disponibles para tu cita *%s* con *%s*:\n\n", strings.ToLower(modality), teacherName)
	for i, d := range dates {
		fmt.Fprintf(&b, "*%d.* %s\n", i+1, d.Display)
	}
	b.WriteString("\nResponde con el *número* o la *fecha* que prefieras.")
	return b.String()
}

func msgDateRetry(attempt, max int, dates []models.AvailableDate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ No identifiqué esa fecha. (Intento %d de %d)\n\n", attempt, max)
	for i, d := range dates {
		fmt.Fprintf(&b, "*%d.* %s\n", i+1, d.Display)
	}
	return b.String()
}

func msgNoSlots(display string) string {
	return fmt.Sprintf("😓 Para *%s* ya no hay horarios disponibles. Por favor elige otra fecha de la lista.", display)
}

func msgSlots(display string, slots []string, durationMins int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🕐 Horarios disponibles para *%s* (duración %d min):\n\n", display, durationMins)
	for _, s := range slots {
		fmt.Fprintf(&b, "• %s\n", To12Hour(s))
	}
	b.WriteString("\nResponde con la *hora* que prefieras, por ejemplo *02:00 PM*.")
	return b.String()
}

func msgTimeRetry(clock string, attempt, max int, slots []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ La hora *%s* no está disponible. (Intento %d de %d)\n\nHorarios disponibles:\n", To12Hour(clock), attempt, max)
	for _, s := range slots {
		fmt.Fprintf(&b, "• %s\n", To12Hour(s))
	}
	return b.String()
}

var fieldIcons = map[string]string{
	"nombre":    "🙋",
	"documento": "🪪",
	"email":     "📧",
	"objetivo":  "📝",
}

func msgConfirmation(id string, draft models.AppointmentDraft, footer string) string {
	var b strings.Builder
	b.WriteString("🎉 *¡Tu cita quedó confirmada!*\n\n")
	if id != "" {
		fmt.Fprintf(&b, "🆔 Cita Nº *%s*\n", id)
	}
	fmt.Fprintf(&b, "👨‍🎓 Estudiante: %s", draft.StudentName)
	if draft.Grade != "" {
		fmt.Fprintf(&b, " (%s", draft.Grade)
		if draft.Course != "" {
			fmt.Fprintf(&b, " - %s", draft.Course)
		}
		b.WriteString(")")
	}
	b.WriteString("\n")
	for _, f := range draft.FormFields {
		if v := draft.Answers[f.ID]; v != "" {
			icon := fieldIcons[f.ID]
			if icon == "" {
				icon = "▪️"
			}
			fmt.Fprintf(&b, "%s %s: %s\n", icon, f.Question, v)
		}
	}
	fmt.Fprintf(&b, "👩‍🏫 Docente: %s (%s)\n", draft.TeacherName, draft.Subject)
	fmt.Fprintf(&b, "📋 Modalidad: %s\n", draft.Modality)
	fmt.Fprintf(&b, "📅 Fecha: %s\n", draft.SelectedLabel)
	fmt.Fprintf(&b, "🕐 Hora: %s\n", To12Hour(draft.Time))
	if strings.Contains(strings.ToLower(draft.Modality), "virtual") {
		if draft.MeetLink != "" {
			fmt.Fprintf(&b, "🔗 Enlace: %s\n", draft.MeetLink)
		} else {
			b.WriteString("⚠️ El docente no tiene enlace de reunión configurado. Por favor contáctalo directamente.\n")
		}
	}
	if footer != "" {
		b.WriteString("\n" + footer)
	}
	return b.String()
}

func msgCancelNotFound(id string) string {
	return fmt.Sprintf("❌ No encontré citas activas para el documento *%s*. Verifica el número e intenta de nuevo, o escribe *salir*.", id)
}

func msgCancelList(appts []models.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Encontré *%d* citas activas:\n\n", len(appts))
	for i, a := range appts {
		fmt.Fprintf(&b, "*%d.* %s - %s %s\n", i+1, a.TeacherLabel, a.Date, To12Hour(a.Time))
	}
	b.WriteString("\nResponde con el *número* de la cita a cancelar, o *todas* para cancelarlas todas.")
	return b.String()
}

func msgCancelInvalidSelection(n int) string {
	return fmt.Sprintf("❌ Responde con un número entre *1* y *%d*, o *todas*.", n)
}

func msgCancelledOne(a models.Appointment) string {
	return fmt.Sprintf("✅ Tu cita con *%s* del %s a las %s fue cancelada.", a.TeacherLabel, a.Date, To12Hour(a.Time))
}

func msgCancelledAll(n int) string {
	return fmt.Sprintf("✅ Se cancelaron *%d* citas. Escríbeme cuando quieras agendar de nuevo.", n)
}

func msgNoAppointments() string {
	return "📭 No tienes citas activas registradas con este número."
}

func msgAppointmentList(appts []models.Appointment) string {
	var b strings.Builder
	b.WriteString("📋 Tus citas activas:\n\n")
	for i, a := range appts {
		fmt.Fprintf(&b, "*%d.* Cita Nº %s - %s\n    📅 %s 🕐 %s (Estudiante: %s)\n", i+1, a.ID, a.TeacherLabel, a.Date, To12Hour(a.Time), a.StudentName)
	}
	b.WriteString("\nPara cancelar una, escribe *cancelar cita*.")
	return b.String()
}

func msgRescheduleNotFound() string {
	return "❌ No encontré esa cita entre tus citas activas. Escribe *mis citas* para ver los números."
}

func msgRescheduled(a models.Appointment) string {
	return fmt.Sprintf("🔄 Tu cita Nº *%s* con *%s* quedó marcada para reprogramar. Escribe *agendar* para elegir la nueva fecha.", a.ID, a.TeacherLabel)
}
