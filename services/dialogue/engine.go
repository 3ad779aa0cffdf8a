package dialogue

import (
	"context"

	"citaflow/models"
	"citaflow/utils"

	"go.uber.org/zap"
)

// Exact-match escape words, accent-insensitive, honored in every state.
var abortWords = map[string]bool{
	"cancelar": true,
	"salir":    true,
	"desistir": true,
}

func (s *DefaultDialogueService) HandleTurn(ctx context.Context, contact, text string) (reply string, active bool, err error) {
	logger := utils.GetLogger().With(zap.String("contact", contact))

	session, err := s.Sessions.Get(ctx, contact)
	if err != nil {
		logger.Error("failed to load session, treating contact as idle", zap.Error(err))
		session = models.IdleSession()
	}
	if session.State == models.StateIdle {
		return "", false, nil
	}

	now := s.now()
	if !session.LastActivity.IsZero() && now.Sub(session.LastActivity) > s.sessionTimeout() {
		s.reset(ctx, contact)
		return msgTimeout, true, nil
	}

	if abortWords[utils.FoldText(text)] {
		s.reset(ctx, contact)
		return msgAborted, true, nil
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("dialogue turn panicked", zap.String("state", string(session.State)), zap.Any("panic", r))
			s.reset(ctx, contact)
			reply, active, err = msgGenericError, true, nil
		}
	}()

	reply, herr := s.dispatch(ctx, contact, text, &session)
	if herr != nil {
		logger.Error("dialogue turn failed", zap.String("state", string(session.State)), zap.Error(herr))
		s.reset(ctx, contact)
		return msgGenericError, true, nil
	}

	if session.State == models.StateIdle {
		s.reset(ctx, contact)
		return reply, true, nil
	}
	session.LastActivity = now
	if serr := s.Sessions.Set(ctx, contact, session); serr != nil {
		logger.Error("failed to persist session", zap.Error(serr))
	}
	return reply, true, nil
}

func (s *DefaultDialogueService) dispatch(ctx context.Context, contact, text string, session *models.Session) (string, error) {
	switch session.State {
	case models.StateCollectingStudentID:
		return s.handleStudentID(ctx, session, text)
	case models.StateCollectingTeacher:
		return s.handleTeacher(ctx, session, text)
	case models.StateCollectingModality:
		return s.handleModality(ctx, session, text)
	case models.StateCollectingDate:
		return s.handleDate(ctx, session, text)
	case models.StateCollectingTime:
		return s.handleTime(ctx, contact, session, text)
	case models.StateCollectingFormField:
		return s.handleFormField(ctx, contact, session, text)
	case models.StateAwaitingCancelID:
		return s.handleCancelID(ctx, contact, session, text)
	case models.StateSelectingCancel:
		return s.handleCancelSelection(ctx, session, text)
	default:
		// Unknown state from an old payload: drop it rather than loop.
		utils.GetLogger().Warn("unknown session state, resetting",
			zap.String("contact", contact), zap.String("state", string(session.State)))
		session.State = models.StateIdle
		return msgGenericError, nil
	}
}

func (s *DefaultDialogueService) BeginBooking(ctx context.Context, contact string) (string, error) {
	session := models.IdleSession()
	session.State = models.StateCollectingStudentID
	session.LastActivity = s.now()
	if err := s.Sessions.Set(ctx, contact, session); err != nil {
		return "", NewCollaboratorError("failed to open booking session", err)
	}
	return msgAskStudentID, nil
}

func (s *DefaultDialogueService) BeginCancellation(ctx context.Context, contact string) (string, error) {
	session := models.IdleSession()
	session.State = models.StateAwaitingCancelID
	session.LastActivity = s.now()
	if err := s.Sessions.Set(ctx, contact, session); err != nil {
		return "", NewCollaboratorError("failed to open cancellation session", err)
	}
	return msgAskCancelID, nil
}

func (s *DefaultDialogueService) reset(ctx context.Context, contact string) {
	if err := s.Sessions.Clear(ctx, contact); err != nil {
		utils.GetLogger().Warn("failed to clear session",
			zap.String("contact", contact), zap.Error(err))
	}
}
