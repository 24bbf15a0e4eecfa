// Package email renders and delivers the salon's transactional mail.
package email

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/salonsuite/salon-api/internal/config"
	"github.com/salonsuite/salon-api/internal/model"
)

type Service interface {
	SendConfirmation(ctx context.Context, client *model.Client, appointment *model.Appointment, serviceName, professionalName string) error
	SendReminder(ctx context.Context, client *model.Client, appointment *model.Appointment, serviceName, professionalName string) error
	SendReactivation(ctx context.Context, client *model.Client, daysWithoutVisit int) error
	SendLowStockAlert(ctx context.Context, products []*model.Product) error
	SendUpkeepNotice(ctx context.Context, reminder *model.Reminder) error
	SendCustom(ctx context.Context, to, subject, content string) error
}

type service struct {
	dialer     *gomail.Dialer
	from       string
	adminEmail string
}

func NewService(cfg config.SMTPConfig) Service {
	return &service{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:       cfg.From,
		adminEmail: cfg.AdminEmail,
	}
}

func (s *service) send(_ context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

type appointmentVars struct {
	ClientName       string
	ServiceName      string
	ProfessionalName string
	Date             string
	Time             string
}

func appointmentTemplateVars(client *model.Client, appointment *model.Appointment, serviceName, professionalName string) appointmentVars {
	return appointmentVars{
		ClientName:       client.Name,
		ServiceName:      serviceName,
		ProfessionalName: professionalName,
		Date:             appointment.StartTime.Format("02/01/2006"),
		Time:             appointment.StartTime.Format("15:04"),
	}
}

func (s *service) SendConfirmation(ctx context.Context, client *model.Client, appointment *model.Appointment, serviceName, professionalName string) error {
	if client.Email == "" {
		return fmt.Errorf("client %s has no email address", client.ID)
	}
	body, err := render(confirmationTemplate, appointmentTemplateVars(client, appointment, serviceName, professionalName))
	if err != nil {
		return err
	}
	return s.send(ctx, client.Email, "Appointment booked", body)
}

func (s *service) SendReminder(ctx context.Context, client *model.Client, appointment *model.Appointment, serviceName, professionalName string) error {
	if client.Email == "" {
		return fmt.Errorf("client %s has no email address", client.ID)
	}
	body, err := render(reminderTemplate, appointmentTemplateVars(client, appointment, serviceName, professionalName))
	if err != nil {
		return err
	}
	return s.send(ctx, client.Email, "Appointment reminder", body)
}

func (s *service) SendReactivation(ctx context.Context, client *model.Client, daysWithoutVisit int) error {
	if client.Email == "" {
		return fmt.Errorf("client %s has no email address", client.ID)
	}
	body, err := render(reactivationTemplate, struct {
		ClientName string
		Days       int
	}{client.Name, daysWithoutVisit})
	if err != nil {
		return err
	}
	return s.send(ctx, client.Email, "We miss you!", body)
}

func (s *service) SendLowStockAlert(ctx context.Context, products []*model.Product) error {
	body, err := render(lowStockTemplate, struct {
		Products []*model.Product
		Date     string
	}{products, time.Now().Format("02/01/2006")})
	if err != nil {
		return err
	}
	return s.send(ctx, s.adminEmail, "Low stock alert", body)
}

func (s *service) SendUpkeepNotice(ctx context.Context, reminder *model.Reminder) error {
	body, err := render(upkeepTemplate, reminder)
	if err != nil {
		return err
	}
	return s.send(ctx, s.adminEmail, fmt.Sprintf("Upkeep due: %s", reminder.Title), body)
}

func (s *service) SendCustom(ctx context.Context, to, subject, content string) error {
	return s.send(ctx, to, subject, content)
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}
