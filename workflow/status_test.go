package workflow

import (
	"testing"

	"github.com/kvbsystems/kvbbackend/models"
	"github.com/stretchr/testify/assert"
)

func TestValidLeadStatus(t *testing.T) {
	for _, s := range []models.LeadStatus{"new", "contacted", "follow-up pending", "converted", "closed", "deleted"} {
		assert.True(t, ValidLeadStatus(s), "expected %q to be valid", s)
	}
	assert.False(t, ValidLeadStatus("pending"))
	assert.False(t, ValidLeadStatus("Follow-Up Pending"))
	assert.False(t, ValidLeadStatus(""))
}

func TestValidQuotationStatus(t *testing.T) {
	for _, s := range []models.QuotationStatus{"new", "contacted", "quotation sent", "accepted", "converted", "closed"} {
		assert.True(t, ValidQuotationStatus(s), "expected %q to be valid", s)
	}
	assert.False(t, ValidQuotationStatus("sent"))
	assert.False(t, ValidQuotationStatus("deleted"))
}

func TestValidTaskStatusAndPriority(t *testing.T) {
	for _, s := range []models.TaskStatus{"pending", "in-progress", "completed", "cancelled"} {
		assert.True(t, ValidTaskStatus(s))
	}
	assert.False(t, ValidTaskStatus("done"))
	assert.False(t, ValidTaskStatus("in progress"))

	for _, p := range []models.TaskPriority{"low", "medium", "high"} {
		assert.True(t, ValidTaskPriority(p))
	}
	assert.False(t, ValidTaskPriority("urgent"))
}

func TestValidEnquiryStatus(t *testing.T) {
	for _, s := range []models.EnquiryStatus{"new", "responded", "closed"} {
		assert.True(t, ValidEnquiryStatus(s))
	}
	assert.False(t, ValidEnquiryStatus("open"))
}

func TestLeadTransitionFollowUp(t *testing.T) {
	effects := LeadTransition(models.LeadStatusNew, models.LeadStatusFollowUpPending)
	assert.True(t, effects.NotifyFollowUp)

	effects = LeadTransition(models.LeadStatusNew, models.LeadStatusContacted)
	assert.False(t, effects.NotifyFollowUp)

	// setting the same status again is a no-op
	effects = LeadTransition(models.LeadStatusFollowUpPending, models.LeadStatusFollowUpPending)
	assert.False(t, effects.NotifyFollowUp)
}

func TestQuotationTransitionSent(t *testing.T) {
	effects := QuotationTransition(models.QuotationStatusNew, models.QuotationStatusSent)
	assert.True(t, effects.NotifySent)
	assert.False(t, effects.NotifyAccepted)
	assert.False(t, effects.SpawnTask)
}

func TestQuotationTransitionAccepted(t *testing.T) {
	effects := QuotationTransition(models.QuotationStatusSent, models.QuotationStatusAccepted)
	assert.True(t, effects.NotifyAccepted)
	assert.True(t, effects.SpawnTask)
	assert.False(t, effects.NotifySent)

	// re-asserting accepted must not re-fire the spawn
	effects = QuotationTransition(models.QuotationStatusAccepted, models.QuotationStatusAccepted)
	assert.False(t, effects.SpawnTask)
	assert.False(t, effects.NotifyAccepted)
}

func TestQuotationTransitionConvertedDoesNotSpawn(t *testing.T) {
	effects := QuotationTransition(models.QuotationStatusAccepted, models.QuotationStatusConverted)
	assert.False(t, effects.SpawnTask)
	assert.False(t, effects.NotifySent)
	assert.False(t, effects.NotifyAccepted)
}

func TestTaskTransitionCompleted(t *testing.T) {
	effects := TaskTransition(models.TaskStatusInProgress, models.TaskStatusCompleted)
	assert.True(t, effects.NotifyCompleted)

	effects = TaskTransition(models.TaskStatusCompleted, models.TaskStatusCompleted)
	assert.False(t, effects.NotifyCompleted)

	effects = TaskTransition(models.TaskStatusInProgress, models.TaskStatusCancelled)
	assert.False(t, effects.NotifyCompleted)
}

func TestAllowedListsMatchMembership(t *testing.T) {
	for _, s := range AllowedLeadStatuses() {
		assert.True(t, ValidLeadStatus(models.LeadStatus(s)))
	}
	for _, s := range AllowedQuotationStatuses() {
		assert.True(t, ValidQuotationStatus(models.QuotationStatus(s)))
	}
	for _, s := range AllowedTaskStatuses() {
		assert.True(t, ValidTaskStatus(models.TaskStatus(s)))
	}
	for _, s := range AllowedEnquiryStatuses() {
		assert.True(t, ValidEnquiryStatus(models.EnquiryStatus(s)))
	}
}
