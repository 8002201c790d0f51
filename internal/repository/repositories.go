package repository

import (
	"github.com/jmoiron/sqlx"
)

// Repositories bundles one repository per entity over a shared connection.
type Repositories struct {
	Users              UserRepository
	Clients            ClientRepository
	Projects           ProjectRepository
	RFIs               RFIRepository
	Attachments        AttachmentRepository
	Responses          ResponseRepository
	EmailLogs          EmailLogRepository
	EmailQueue         EmailQueueRepository
	Stakeholders       StakeholderRepository
	AccessRequests     AccessRequestRepository
	Contacts           ContactRepository
	RegistrationTokens RegistrationTokenRepository
}

func New(db *sqlx.DB) *Repositories {
	return &Repositories{
		Users:              NewUserRepository(db),
		Clients:            NewClientRepository(db),
		Projects:           NewProjectRepository(db),
		RFIs:               NewRFIRepository(db),
		Attachments:        NewAttachmentRepository(db),
		Responses:          NewResponseRepository(db),
		EmailLogs:          NewEmailLogRepository(db),
		EmailQueue:         NewEmailQueueRepository(db),
		Stakeholders:       NewStakeholderRepository(db),
		AccessRequests:     NewAccessRequestRepository(db),
		Contacts:           NewContactRepository(db),
		RegistrationTokens: NewRegistrationTokenRepository(db),
	}
}
