package ledgerRepo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"citaflow/config"
	"citaflow/database"
	"citaflow/models"

	"google.golang.org/api/sheets/v4"
)

const (
	appointmentsSheet = "Citas_Registradas"
	outboxSheet       = "Envios"
)

// System columns A..J on the appointments sheet; dynamic intake answers
// follow from column K.
var systemHeaders = []string{
	"ID_Cita", "Fecha_Registro", "WhatsApp", "Estudiante", "ID_Estudiante",
	"Docente", "Fecha_Cita", "Hora_Cita", "Estado", "EventID",
}

type sheetsLedgerRepo struct {
	svc     *sheets.Service
	sheetID string
}

// NewSheetsAppointmentRepo returns the spreadsheet-backed booking ledger.
func NewSheetsAppointmentRepo() AppointmentRepository {
	return &sheetsLedgerRepo{svc: database.SheetsService, sheetID: config.AppConfig.SheetID}
}

type sheetsOutboxRepo struct {
	sheetsLedgerRepo
}

// NewSheetsOutboxRepo returns the spreadsheet-backed send queue.
func NewSheetsOutboxRepo() OutboxRepository {
	return &sheetsOutboxRepo{sheetsLedgerRepo{svc: database.SheetsService, sheetID: config.AppConfig.SheetID}}
}

func (r *sheetsLedgerRepo) rows(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(r.sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", readRange, err)
	}
	return resp.Values, nil
}

func (r *sheetsLedgerRepo) update(ctx context.Context, writeRange string, values [][]interface{}) error {
	_, err := r.svc.Spreadsheets.Values.Update(r.sheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", writeRange, err)
	}
	return nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

func (r *sheetsLedgerRepo) nextAppointmentID(ctx context.Context) (int, error) {
	rows, err := r.rows(ctx, appointmentsSheet+"!A2:A")
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 1, nil
	}
	last, _ := strconv.Atoi(cell(rows[len(rows)-1], 0))
	return last + 1, nil
}

func (r *sheetsLedgerRepo) Append(ctx context.Context, appt models.Appointment, fields []models.FormField) (string, error) {
	// Rewrite the header row so dynamic columns track the current form
	// configuration.
	headers := make([]interface{}, 0, len(systemHeaders)+len(fields))
	for _, h := range systemHeaders {
		headers = append(headers, h)
	}
	for _, f := range fields {
		headers = append(headers, f.ID)
	}
	lastCol := string(rune('A' + len(headers) - 1))
	headerRange := fmt.Sprintf("%s!A1:%s1", appointmentsSheet, lastCol)
	if err := r.update(ctx, headerRange, [][]interface{}{headers}); err != nil {
		return "", err
	}

	nextID, err := r.nextAppointmentID(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now().In(config.Location()).Format("2006-01-02 15:04:05")
	row := []interface{}{
		strconv.Itoa(nextID), now, appt.Contact, appt.StudentName, appt.StudentID,
		appt.TeacherLabel, appt.Date, appt.Time, string(appt.Status), appt.EventID,
	}
	for _, f := range fields {
		row = append(row, appt.Fields[f.ID])
	}

	_, err = r.svc.Spreadsheets.Values.Append(r.sheetID, appointmentsSheet+"!A2", &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to append appointment: %w", err)
	}
	return strconv.Itoa(nextID), nil
}

func (r *sheetsLedgerRepo) GetByContact(ctx context.Context, contact string) ([]models.Appointment, error) {
	rows, err := r.rows(ctx, appointmentsSheet+"!A2:Z")
	if err != nil {
		return nil, err
	}
	var appts []models.Appointment
	for _, row := range rows {
		phone := cell(row, 2)
		if phone == "" {
			continue
		}
		if phone != contact && !strings.Contains(phone, contact) && !strings.Contains(contact, phone) {
			continue
		}
		status := models.AppointmentStatus(cell(row, 8))
		if status != models.StatusConfirmed && status != models.StatusRescheduled {
			continue
		}
		appts = append(appts, models.Appointment{
			ID:           cell(row, 0),
			CreatedAt:    cell(row, 1),
			Contact:      phone,
			StudentName:  cell(row, 3),
			StudentID:    cell(row, 4),
			TeacherLabel: cell(row, 5),
			Date:         cell(row, 6),
			Time:         cell(row, 7),
			Status:       status,
			EventID:      cell(row, 9),
		})
	}
	return appts, nil
}

func (r *sheetsLedgerRepo) SetStatus(ctx context.Context, id string, status models.AppointmentStatus) (bool, error) {
	rows, err := r.rows(ctx, appointmentsSheet+"!A2:J")
	if err != nil {
		return false, err
	}
	for i, row := range rows {
		if cell(row, 0) != id {
			continue
		}
		// Status lives in column I; +2 because data starts at A2.
		statusRange := fmt.Sprintf("%s!I%d", appointmentsSheet, i+2)
		if err := r.update(ctx, statusRange, [][]interface{}{{string(status)}}); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (r *sheetsOutboxRepo) GetMessages(ctx context.Context) ([]models.OutboxMessage, error) {
	rows, err := r.rows(ctx, outboxSheet+"!A2:E")
	if err != nil {
		return nil, err
	}
	var msgs []models.OutboxMessage
	for i, row := range rows {
		m := models.OutboxMessage{
			Row:         i + 2,
			Destination: cell(row, 0),
			Text:        cell(row, 1),
			MediaURL:    cell(row, 2),
			ScheduledAt: cell(row, 3),
			Status:      cell(row, 4),
		}
		if m.Status == "" {
			m.Status = models.OutboxPending
		}
		if m.Destination == "" || m.Text == "" {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (r *sheetsOutboxRepo) SetStatus(ctx context.Context, row int, status string) error {
	return r.update(ctx, fmt.Sprintf("%s!E%d", outboxSheet, row), [][]interface{}{{status}})
}
