package intelligence

import (
	"encoding/json"
	"strings"

	"citaflow/utils"
)

type Intent string

const (
	IntentSchedule   Intent = "schedule"
	IntentCancel     Intent = "cancel"
	IntentList       Intent = "list"
	IntentReschedule Intent = "reschedule"
	IntentChat       Intent = "chat"
)

// DetectIntent classifies a message from an idle contact by keyword.
// Reschedule and cancel are checked before schedule because those
// phrases usually also contain "cita". A message that mentions a cita
// without any of the explicit verbs is NOT resolved here; the caller
// lets the model disambiguate it (see MentionsAppointment).
func DetectIntent(text string) Intent {
	folded := utils.FoldText(text)
	switch {
	case containsAny(folded, "reprogramar", "reagendar", "cambiar la cita", "cambiar mi cita"):
		return IntentReschedule
	case containsAny(folded, "cancelar", "anular"):
		return IntentCancel
	case containsAny(folded, "mis citas", "ver citas", "consultar citas", "que citas"):
		return IntentList
	case containsAny(folded, "agendar", "agenda", "programar", "reunion", "reunirme"):
		return IntentSchedule
	default:
		return IntentChat
	}
}

// MentionsAppointment reports whether the text talks about a cita at
// all. Combined with an IntentChat keyword result it marks the
// ambiguous messages worth a model classification.
func MentionsAppointment(text string) bool {
	return strings.Contains(utils.FoldText(text), "cita")
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

const intentPrompt = `Clasifica la intención de este mensaje enviado por un padre de familia al asistente de citas de una institución educativa.
Responde únicamente con JSON, sin texto adicional: {"intent": "<valor>"}
Valores posibles:
- "schedule": quiere agendar una cita nueva
- "cancel": quiere cancelar una cita existente
- "list": quiere consultar sus citas
- "reschedule": quiere cambiar la fecha u hora de una cita
- "chat": cualquier otra cosa

Mensaje: %q`

// parseIntentReply extracts the {"intent": ...} object from a model
// reply, tolerating code fences and surrounding prose.
func parseIntentReply(raw string) (Intent, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return IntentChat, false
	}
	var out struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &out); err != nil {
		return IntentChat, false
	}
	intent := Intent(strings.ToLower(strings.TrimSpace(out.Intent)))
	switch intent {
	case IntentSchedule, IntentCancel, IntentList, IntentReschedule, IntentChat:
		return intent, true
	}
	return IntentChat, false
}
