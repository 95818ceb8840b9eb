package notify

import (
	"context"

	"campus-events-backend/cmd/campus-events/identity"
	"campus-events-backend/cmd/campus-events/lifecycle"
	"campus-events-backend/cmd/campus-events/model"
)

// EngineSource polls an in-process engine on behalf of actor.
type EngineSource struct {
	Engine *lifecycle.Engine
	Actor  identity.Actor
}

func (s EngineSource) FetchRequest(ctx context.Context, id string) (*model.EventRequest, error) {
	return s.Engine.Get(ctx, s.Actor, id)
}

func (s EngineSource) MarkRemarkNotified(ctx context.Context, id string) error {
	_, err := s.Engine.MarkRemarkNotified(ctx, s.Actor, id)
	return err
}
