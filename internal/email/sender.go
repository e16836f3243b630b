package email

import "go.uber.org/zap"

// Sender delivers an invoice document to a recipient. Implementations
// report delivery failure through the returned error; callers treat any
// failure as an operation error.
type Sender interface {
	Send(to, subject, body string, attachment []byte) error
}

// LogSender is a mock transport: it writes the envelope to the log instead
// of dispatching anything. Swap in an SMTP or API-backed Sender for real
// delivery.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(to, subject, body string, attachment []byte) error {
	s.log.Info("mock email dispatched",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
		zap.Int("attachment_bytes", len(attachment)),
	)
	return nil
}
