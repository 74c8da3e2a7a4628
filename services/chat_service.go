package services

import (
	"serenity-chat/domain"
	"serenity-chat/runtime"
)

type IChatService interface {
	Send(text string) error
	Messages() []domain.Message
	AwaitingReply() bool
}

type ChatService struct {
	orchestrator *runtime.Orchestrator
}

func NewChatService(o *runtime.Orchestrator) *ChatService {
	return &ChatService{orchestrator: o}
}

func (s *ChatService) Send(text string) error {
	return s.orchestrator.BeginReply(text)
}

func (s *ChatService) Messages() []domain.Message {
	return s.orchestrator.Snapshot()
}

func (s *ChatService) AwaitingReply() bool {
	return s.orchestrator.IsAwaitingReply()
}
