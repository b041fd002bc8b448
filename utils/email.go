package utils

import (
	"bytes"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"venue_pos/model"
)

type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends operator notices to a single report address.
type Mailer struct {
	sender Sender
	from   string
	to     string
	log    *zap.Logger
}

func NewMailer(host string, port int, username, password, from, to string, log *zap.Logger) *Mailer {
	return NewMailerWithSender(gomail.NewDialer(host, port, username, password), from, to, log)
}

func NewMailerWithSender(sender Sender, from, to string, log *zap.Logger) *Mailer {
	if from == "" {
		from = to
	}
	return &Mailer{sender: sender, from: from, to: to, log: log}
}

var refundTemplate = template.Must(template.New("refund").Parse(`<h2>Refund issued</h2>
<p>Order <strong>#{{.OrderID}}</strong> from table {{.TableNumber}} was refunded.</p>
<table>
<tr><td>Amount</td><td>{{.RefundAmount.StringFixed 2}}</td></tr>
<tr><td>Reference</td><td>{{.Reference}}</td></tr>
<tr><td>Time</td><td>{{.CreatedAt.Format "2006-01-02 15:04:05"}} UTC</td></tr>
</table>`))

var summaryTemplate = template.Must(template.New("summary").Parse(`<h2>Daily summary {{.Date}}</h2>
<table>
<tr><td>Orders placed</td><td>{{.OrdersPlaced}}</td></tr>
<tr><td>Payments</td><td>{{.PaymentsCount}} ({{.PaymentsTotal.StringFixed 2}})</td></tr>
<tr><td>Refunds</td><td>{{.RefundsCount}} ({{.RefundsTotal.StringFixed 2}})</td></tr>
<tr><td>Net</td><td>{{.Net.StringFixed 2}}</td></tr>
</table>`))

func (m *Mailer) RefundMessage(rec *model.RefundRecord) (*gomail.Message, error) {
	return m.message(fmt.Sprintf("Refund for order #%d", rec.OrderID), refundTemplate, rec)
}

func (m *Mailer) SummaryMessage(summary *model.DailySummary) (*gomail.Message, error) {
	return m.message("Daily summary "+summary.Date, summaryTemplate, summary)
}

func (m *Mailer) message(subject string, tmpl *template.Template, data any) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	msg := gomail.NewMessage(gomail.SetEncoding(gomail.Unencoded))
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())
	return msg, nil
}

// SendRefundNotice mails the refund in the background so the request is not delayed.
func (m *Mailer) SendRefundNotice(rec *model.RefundRecord) {
	go func() {
		if err := m.send(m.RefundMessage(rec)); err != nil {
			m.log.Warn("refund notice not sent", zap.Uint("order_id", rec.OrderID), zap.Error(err))
		}
	}()
}

func (m *Mailer) SendDailySummary(summary *model.DailySummary) error {
	return m.send(m.SummaryMessage(summary))
}

func (m *Mailer) send(msg *gomail.Message, err error) error {
	if err != nil {
		return err
	}
	return m.sender.DialAndSend(msg)
}
