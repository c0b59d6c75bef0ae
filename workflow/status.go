// Package workflow holds the status/lifecycle rules shared by the lead,
// quotation and task controllers: which status values each entity accepts,
// which transitions carry side effects, and how the installation task is
// built when a quotation is accepted.
package workflow

import "github.com/kvbsystems/kvbbackend/models"

var leadStatuses = map[models.LeadStatus]bool{
	models.LeadStatusNew:             true,
	models.LeadStatusContacted:       true,
	models.LeadStatusFollowUpPending: true,
	models.LeadStatusConverted:       true,
	models.LeadStatusClosed:          true,
	models.LeadStatusDeleted:         true,
}

var quotationStatuses = map[models.QuotationStatus]bool{
	models.QuotationStatusNew:       true,
	models.QuotationStatusContacted: true,
	models.QuotationStatusSent:      true,
	models.QuotationStatusAccepted:  true,
	models.QuotationStatusConverted: true,
	models.QuotationStatusClosed:    true,
}

var taskStatuses = map[models.TaskStatus]bool{
	models.TaskStatusPending:    true,
	models.TaskStatusInProgress: true,
	models.TaskStatusCompleted:  true,
	models.TaskStatusCancelled:  true,
}

var enquiryStatuses = map[models.EnquiryStatus]bool{
	models.EnquiryStatusNew:       true,
	models.EnquiryStatusResponded: true,
	models.EnquiryStatusClosed:    true,
}

var taskPriorities = map[models.TaskPriority]bool{
	models.TaskPriorityLow:    true,
	models.TaskPriorityMedium: true,
	models.TaskPriorityHigh:   true,
}

// Any declared status may follow any other; only membership is checked.
// The trackers are flat status fields, not ordered pipelines.

func ValidLeadStatus(s models.LeadStatus) bool { return leadStatuses[s] }

func ValidQuotationStatus(s models.QuotationStatus) bool { return quotationStatuses[s] }

func ValidTaskStatus(s models.TaskStatus) bool { return taskStatuses[s] }

func ValidEnquiryStatus(s models.EnquiryStatus) bool { return enquiryStatuses[s] }

func ValidTaskPriority(p models.TaskPriority) bool { return taskPriorities[p] }

// AllowedLeadStatuses lists the accepted values for error payloads.
func AllowedLeadStatuses() []string {
	return []string{"new", "contacted", "follow-up pending", "converted", "closed", "deleted"}
}

func AllowedQuotationStatuses() []string {
	return []string{"new", "contacted", "quotation sent", "accepted", "converted", "closed"}
}

func AllowedTaskStatuses() []string {
	return []string{"pending", "in-progress", "completed", "cancelled"}
}

func AllowedEnquiryStatuses() []string {
	return []string{"new", "responded", "closed"}
}

// LeadSideEffects reports which notifications a lead status change triggers.
type LeadSideEffects struct {
	NotifyFollowUp bool
}

func LeadTransition(old, next models.LeadStatus) LeadSideEffects {
	if old == next {
		return LeadSideEffects{}
	}
	return LeadSideEffects{
		NotifyFollowUp: next == models.LeadStatusFollowUpPending,
	}
}

// QuotationSideEffects reports what a quotation status change triggers.
// SpawnTask callers must still check for an existing task referencing the
// quotation before inserting (see SpawnGuardFilter).
type QuotationSideEffects struct {
	NotifySent     bool
	NotifyAccepted bool
	SpawnTask      bool
}

func QuotationTransition(old, next models.QuotationStatus) QuotationSideEffects {
	if old == next {
		return QuotationSideEffects{}
	}
	return QuotationSideEffects{
		NotifySent:     next == models.QuotationStatusSent,
		NotifyAccepted: next == models.QuotationStatusAccepted,
		SpawnTask:      next == models.QuotationStatusAccepted,
	}
}

// TaskSideEffects reports what a task status change triggers.
type TaskSideEffects struct {
	NotifyCompleted bool
}

func TaskTransition(old, next models.TaskStatus) TaskSideEffects {
	if old == next {
		return TaskSideEffects{}
	}
	return TaskSideEffects{
		NotifyCompleted: next == models.TaskStatusCompleted,
	}
}
