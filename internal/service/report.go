package service

import (
	"encoding/json"
	"fmt"
)

// RecordCounts tallies the rows a cascade removed, per table.
type RecordCounts struct {
	Clients            int `json:"clients"`
	Projects           int `json:"projects"`
	RFIs               int `json:"rfis"`
	Responses          int `json:"responses"`
	Attachments        int `json:"attachments"`
	EmailLogs          int `json:"email_logs"`
	EmailQueue         int `json:"email_queue"`
	Stakeholders       int `json:"stakeholders"`
	AccessRequests     int `json:"access_requests"`
	Contacts           int `json:"contacts"`
	RegistrationTokens int `json:"registration_tokens"`
}

// Add folds other into c.
func (c *RecordCounts) Add(other RecordCounts) {
	c.Clients += other.Clients
	c.Projects += other.Projects
	c.RFIs += other.RFIs
	c.Responses += other.Responses
	c.Attachments += other.Attachments
	c.EmailLogs += other.EmailLogs
	c.EmailQueue += other.EmailQueue
	c.Stakeholders += other.Stakeholders
	c.AccessRequests += other.AccessRequests
	c.Contacts += other.Contacts
	c.RegistrationTokens += other.RegistrationTokens
}

// FileError is an attachment whose stored file could not be removed. The
// database row is deleted regardless.
type FileError struct {
	StoredName string
	Filename   string
	Err        error
}

func (e FileError) Error() string {
	return fmt.Sprintf("failed to delete file %s (%s): %v", e.Filename, e.StoredName, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

func (e FileError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(struct {
		StoredName string `json:"stored_name"`
		Filename   string `json:"filename"`
		Error      string `json:"error"`
	}{e.StoredName, e.Filename, msg})
}

// DeletionReport is the outcome of a hard delete of an RFI, project or client.
// A report with FileErrors is still a successful deletion.
type DeletionReport struct {
	Success        bool         `json:"success"`
	Entity         string       `json:"entity"`
	Name           string       `json:"name"`
	DeletedFiles   []string     `json:"deleted_files"`
	FileErrors     []FileError  `json:"file_errors"`
	DeletedRecords RecordCounts `json:"deleted_records"`
}

// Warnings renders FileErrors for display.
func (r *DeletionReport) Warnings() []string {
	warnings := make([]string, 0, len(r.FileErrors))
	for _, fe := range r.FileErrors {
		warnings = append(warnings, fe.Error())
	}
	return warnings
}

// merge folds a child report into r. Entity and name stay those of the root.
func (r *DeletionReport) merge(child *DeletionReport) {
	r.DeletedFiles = append(r.DeletedFiles, child.DeletedFiles...)
	r.FileErrors = append(r.FileErrors, child.FileErrors...)
	r.DeletedRecords.Add(child.DeletedRecords)
}

func newDeletionReport(entity, name string) *DeletionReport {
	return &DeletionReport{
		Entity:       entity,
		Name:         name,
		DeletedFiles: []string{},
		FileErrors:   []FileError{},
	}
}

// AffectedRecords counts the rows that pointed at a deleted user.
type AffectedRecords struct {
	Projects     int `json:"projects"`
	RFIs         int `json:"rfis"`
	Responses    int `json:"responses"`
	Stakeholders int `json:"stakeholders"`
}

// UserDeletionReport is the outcome of DeleteUser. ReassignedTo is nil when
// the user's weak references were cleared instead of moved.
type UserDeletionReport struct {
	Success         bool            `json:"success"`
	UserName        string          `json:"user_name"`
	UserEmail       string          `json:"user_email"`
	ReassignedTo    *string         `json:"reassigned_to"`
	AffectedRecords AffectedRecords `json:"affected_records"`
}
