package notify

import (
	"fmt"

	"github.com/kvbsystems/kvbbackend/models"
)

func LeadFollowUpEmail(to string, lead models.Lead) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Follow-up due: %s", lead.Name),
		Body: fmt.Sprintf(
			"The lead %s (%s, %s) is marked for follow-up. Please reach out.",
			lead.Name, lead.Email, lead.Phone,
		),
	}
}

func QuotationSentEmail(customer models.Customer, productName string, price float64) Message {
	return Message{
		To:      customer.Email,
		Subject: "Your quotation from KVB",
		Body: fmt.Sprintf(
			"Dear %s,\n\nYour quotation for %s is ready. Quoted price: %.2f.\n\nKVB Management System",
			customer.Name, productName, price,
		),
	}
}

func QuotationAcceptedEmail(customer models.Customer, productName string) Message {
	return Message{
		To:      customer.Email,
		Subject: "Quotation accepted — installation scheduled",
		Body: fmt.Sprintf(
			"Dear %s,\n\nThank you for accepting the quotation for %s. An installation task has been scheduled; our team will contact you with the date.\n\nKVB Management System",
			customer.Name, productName,
		),
	}
}

func TaskAssignedEmail(worker models.Worker, task models.Task) Message {
	body := fmt.Sprintf("Hi %s,\n\nYou have been assigned the task %q at %s.",
		worker.Name, task.Title, task.Location)
	if task.DueDate != nil {
		body += fmt.Sprintf(" Due %s.", task.DueDate.Format("02 Jan 2006"))
	}
	return Message{
		To:      worker.Email,
		Subject: fmt.Sprintf("New task assigned: %s", task.Title),
		Body:    body,
	}
}

func TaskCompletedEmail(customer models.Customer, task models.Task) Message {
	return Message{
		To:      customer.Email,
		Subject: fmt.Sprintf("Work completed: %s", task.Title),
		Body: fmt.Sprintf(
			"Dear %s,\n\nThe work on %q has been completed. Thank you for choosing KVB.\n\nKVB Management System",
			customer.Name, task.Title,
		),
	}
}
