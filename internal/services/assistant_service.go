package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amicuslegal/amicus/internal/models"
)

// GenerativeClient defines the interface for the language model backend
type GenerativeClient interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
	GenerateChat(ctx context.Context, system string, history []models.ChatTurn, message string) (string, error)
	GenerateFromFile(ctx context.Context, system, prompt string, data []byte, mimeType string) (string, error)
}

// Analysis modes for uploaded documents. Document analysis is the
// general case; the contract scan runs a stricter red-flag audit.
const (
	AnalysisModeDocument     = "analysis"
	AnalysisModeContractScan = "contract_scan"
)

const maxForgeDetails = 20000

// AssistantService fronts the legal assistant features: conversational
// guidance, document red-flag analysis and contract drafting. Every
// prompt is grounded in the user's stored jurisdiction.
type AssistantService struct {
	users     UserRepository
	generator GenerativeClient
	logger    *slog.Logger
}

func NewAssistantService(users UserRepository, generator GenerativeClient, logger *slog.Logger) *AssistantService {
	return &AssistantService{users: users, generator: generator, logger: logger}
}

func (s *AssistantService) jurisdictionFor(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrNotFound
		}
		s.logger.Error("failed to load user for assistant request", slog.Any("error", err))
		return "", models.ErrPersistence
	}
	return user.Jurisdiction(), nil
}

func strategistInstruction(jurisdiction string) string {
	return fmt.Sprintf(`You are Amicus, an elite legal strategist and consultant.
The user is located in %s. All guidance, statutes and procedural advice must be specific to that jurisdiction.
Be direct and practical. Explain legal concepts in plain language, flag deadlines and procedural traps, and say clearly when a question needs a licensed attorney.`, jurisdiction)
}

func analystInstruction(jurisdiction string) string {
	return fmt.Sprintf(`You are Amicus, a legal document analyst.
The user is located in %s. Analyze the supplied document under the law of that jurisdiction.
Summarize the key points, identify potential risks, and cite specific relevant laws where applicable. Respond in clear, structured markdown.`, jurisdiction)
}

func redFlagInstruction(jurisdiction string) string {
	return fmt.Sprintf(`You are Amicus, a meticulous contract red-flag scanner.
The user is located in %s. Review the supplied document under the law of that jurisdiction.
List every clause that is unusual, one-sided or risky for the user, quote the offending language, and rate each finding low, medium or high severity. Finish with a short overall assessment.`, jurisdiction)
}

func forgeInstruction(jurisdiction string) string {
	return fmt.Sprintf(`You are Amicus, an expert contract drafter.
The user is located in %s. Draft a complete, professionally formatted legal document valid in that jurisdiction based on the user's requirements.
Use clear defined terms, number the clauses, and include signature blocks. Output only the document itself.`, jurisdiction)
}

// Chat answers a conversational legal question, carrying prior turns so
// the model keeps context across the session.
func (s *AssistantService) Chat(ctx context.Context, userID, message string, history []models.ChatTurn) (string, error) {
	if message == "" {
		return "", fmt.Errorf("%w: message is required", models.ErrValidation)
	}
	jurisdiction, err := s.jurisdictionFor(ctx, userID)
	if err != nil {
		return "", err
	}
	reply, err := s.generator.GenerateChat(ctx, strategistInstruction(jurisdiction), history, message)
	if err != nil {
		s.logger.Error("chat generation failed", slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	return reply, nil
}

// Analyze reviews an uploaded document, either as a general analysis or
// as a contract red-flag scan depending on mode.
func (s *AssistantService) Analyze(ctx context.Context, userID, mode string, data []byte, mimeType string) (string, error) {
	if mode != AnalysisModeDocument && mode != AnalysisModeContractScan {
		return "", fmt.Errorf("%w: unsupported analysis mode %q", models.ErrValidation, mode)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: a document is required", models.ErrValidation)
	}
	jurisdiction, err := s.jurisdictionFor(ctx, userID)
	if err != nil {
		return "", err
	}

	system := analystInstruction(jurisdiction)
	prompt := "Analyze this document."
	if mode == AnalysisModeContractScan {
		system = redFlagInstruction(jurisdiction)
		prompt = "Scan this document for red flags."
	}

	report, err := s.generator.GenerateFromFile(ctx, system, prompt, data, mimeType)
	if err != nil {
		s.logger.Error("analysis generation failed", slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	return report, nil
}

// Forge drafts a document of the requested type from free-form details
func (s *AssistantService) Forge(ctx context.Context, userID, docType, details string) (string, error) {
	if docType == "" || details == "" {
		return "", fmt.Errorf("%w: document type and details are required", models.ErrValidation)
	}
	if len(details) > maxForgeDetails {
		return "", fmt.Errorf("%w: details too long", models.ErrValidation)
	}
	jurisdiction, err := s.jurisdictionFor(ctx, userID)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf("Document type: %s\n\nRequirements:\n%s", docType, details)
	document, err := s.generator.GenerateText(ctx, forgeInstruction(jurisdiction), prompt)
	if err != nil {
		s.logger.Error("document generation failed", slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	return document, nil
}
