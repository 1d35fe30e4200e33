package notifier

import (
	"fmt"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
)

// wrapTemplate frames body content in the shared HTML shell.
func wrapTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F3B4D; padding: 24px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; }
			.content { padding: 32px 24px; color: #1F3B4D; line-height: 1.6; }
			.note { background: #E8F0FE; padding: 12px; border-radius: 4px; border-left: 4px solid #4A90A4; margin: 16px 0; }
			.footer { background-color: #F6F6F6; padding: 16px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">This is an automated message from CliniQ Support. Please do not reply.</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

func renderTicketCreated(t *models.SupportTicket) string {
	body := fmt.Sprintf(`
		<h2>We received your request</h2>
		<p>Your support ticket has been created and our team will get back to you shortly.</p>
		<div class="note"><strong>%s</strong><br/>%s</div>
		<p>Ticket reference: %s</p>`, t.Subject, t.Message, t.ID)
	return wrapTemplate("Support Request Received", body)
}

func renderAdminReplied(t *models.SupportTicket) string {
	reply := ""
	if t.AdminReply != nil {
		reply = *t.AdminReply
	}
	body := fmt.Sprintf(`
		<h2>Our team replied to your request</h2>
		<div class="note">%s</div>
		<p>Ticket reference: %s</p>`, reply, t.ID)
	return wrapTemplate("New Reply From Support", body)
}

func renderTicketResolved(t *models.SupportTicket) string {
	note := ""
	if t.ResolutionNote != nil {
		note = *t.ResolutionNote
	}
	body := fmt.Sprintf(`
		<h2>Your request was resolved</h2>
		<div class="note">%s</div>
		<p>If the issue persists, open a new ticket and reference %s.</p>`, note, t.ID)
	return wrapTemplate("Support Request Resolved", body)
}
