// Package notify 发送通知邮件。所有调用方都把发送失败当作非致命错误
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/pkg/logger"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New SMTP 未配置时退回到只写日志
func New(cfg config.MailConfig) Notifier {
	if !cfg.Enabled() {
		return LogNotifier{}
	}
	return NewSMTPNotifier(cfg)
}

type SMTPNotifier struct {
	cfg config.MailConfig
}

func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to %s: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{mail.WithPort(n.cfg.Port)}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}
	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogNotifier 开发环境使用，正文不落日志
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, to, subject, _ string) error {
	logger.Log.Info("Mail not configured, message skipped",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

// Message 一封已发送（或尝试发送）的邮件
type Message struct {
	To      string
	Subject string
	Body    string
}

// Recorder 记录所有消息，FailFor 中的地址返回错误
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
	FailFor  map[string]bool
	Err      error
}

func (r *Recorder) Send(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{To: to, Subject: subject, Body: body})
	if r.Err != nil {
		return r.Err
	}
	if r.FailFor[to] {
		return fmt.Errorf("mailbox %s unavailable", to)
	}
	return nil
}

func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.Messages))
	copy(out, r.Messages)
	return out
}
