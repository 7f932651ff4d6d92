package notify

import (
	"fmt"
	"log"
	"sync"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/service/events"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer e-mails an influencer when they are booked into a company slot.
type Mailer struct {
	db     *gorm.DB
	sender Sender
	from   string
	wg     sync.WaitGroup
}

func NewMailer(db *gorm.DB, sender Sender, from string) *Mailer {
	return &Mailer{db: db, sender: sender, from: from}
}

// NewSMTPMailer returns nil when no SMTP host is configured.
func NewSMTPMailer(db *gorm.DB, host string, port int, username, password, from string) *Mailer {
	if host == "" {
		return nil
	}
	if from == "" {
		from = username
	}
	return NewMailer(db, gomail.NewDialer(host, port, username, password), from)
}

func (m *Mailer) Notify(e events.Event) {
	if m == nil || e.Type != events.BookingCreated {
		return
	}
	booking, ok := e.Payload.(models.Booking)
	if !ok {
		return
	}

	msg, err := m.bookingMessage(booking)
	if err != nil {
		log.Printf("Error preparing booking email for booking %d: %v", booking.ID, err)
		return
	}
	if msg == nil {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.sender.DialAndSend(msg); err != nil {
			log.Printf("Error sending booking email for booking %d: %v", booking.ID, err)
		}
	}()
}

// Wait blocks until queued e-mails have been handed to the SMTP server.
func (m *Mailer) Wait() {
	if m == nil {
		return
	}
	m.wg.Wait()
}

func (m *Mailer) bookingMessage(b models.Booking) (*gomail.Message, error) {
	influencer := b.Influencer
	if influencer == nil {
		influencer = &models.Influencer{}
		if err := m.db.First(influencer, b.InfluencerID).Error; err != nil {
			return nil, fmt.Errorf("load influencer: %w", err)
		}
	}
	if influencer.Email == "" {
		return nil, nil
	}

	company := b.Company
	if company == nil {
		company = &models.Company{}
		if err := m.db.First(company, b.CompanyID).Error; err != nil {
			return nil, fmt.Errorf("load company: %w", err)
		}
	}

	when := fmt.Sprintf("%s (%s)", b.Day, b.Shift)
	if b.StartTime != "" && b.EndTime != "" {
		when = fmt.Sprintf("%s, %s-%s", when, b.StartTime, b.EndTime)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", influencer.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Nueva asignación: %s", company.Name))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hola %s,\n\nHas sido asignado/a a %s el %s.\nDirección: %s\n\nadmusProduccion",
		influencer.Name, company.Name, when, company.Address,
	))
	return msg, nil
}
