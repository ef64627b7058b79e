package entrystore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/waitlist-api/pkg/waitlist"
)

// EntryDao is a data access object that maps directly to the
// 'waitlist_entries' table in PostgreSQL. Uniqueness of email, wallet
// address, verification token and post URL is enforced by unique indexes
// created in migrations, so concurrent duplicate writes fail atomically
// inside the database.
type EntryDao struct {
	bun.BaseModel     `bun:"table:waitlist_entries,alias:we"`
	ID                string    `bun:"id,pk,type:uuid"`
	Name              string    `bun:"name,notnull,type:varchar(100)"`
	Email             string    `bun:"email,notnull,type:varchar(255)"`
	WalletAddress     *string   `bun:"wallet_address,type:varchar(42)"`
	Roles             []string  `bun:"roles,array,notnull"`
	Note              *string   `bun:"note,type:varchar(500)"`
	XHandle           *string   `bun:"x_handle,type:varchar(15)"`
	EmailVerified     bool      `bun:"email_verified,notnull,default:false"`
	VerificationToken *string   `bun:"verification_token,type:varchar(64)"`
	Posted            bool      `bun:"posted,notnull,default:false"`
	PostURL           *string   `bun:"post_url,type:text"`
	Status            string    `bun:"status,notnull,default:'pending',type:varchar(16)"`
	CreatedAt         time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// toEntryDao converts a waitlist.Entry to EntryDao.
func toEntryDao(entry *waitlist.Entry) *EntryDao {
	dao := &EntryDao{
		ID:            entry.ID,
		Name:          entry.Name,
		Email:         entry.Email,
		EmailVerified: entry.EmailVerified,
		Posted:        entry.Posted,
		Status:        string(entry.Status),
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}

	dao.Roles = make([]string, len(entry.Roles))
	for i, r := range entry.Roles {
		dao.Roles[i] = string(r)
	}

	if entry.WalletAddress != "" {
		dao.WalletAddress = &entry.WalletAddress
	}
	if entry.Note != "" {
		dao.Note = &entry.Note
	}
	if entry.XHandle != "" {
		dao.XHandle = &entry.XHandle
	}
	if entry.VerificationToken != "" {
		dao.VerificationToken = &entry.VerificationToken
	}
	if entry.PostURL != "" {
		dao.PostURL = &entry.PostURL
	}

	return dao
}

// toEntry converts an EntryDao to waitlist.Entry.
func toEntry(dao *EntryDao) *waitlist.Entry {
	entry := &waitlist.Entry{
		ID:            dao.ID,
		Name:          dao.Name,
		Email:         dao.Email,
		EmailVerified: dao.EmailVerified,
		Posted:        dao.Posted,
		Status:        waitlist.Status(dao.Status),
		CreatedAt:     dao.CreatedAt,
		UpdatedAt:     dao.UpdatedAt,
	}

	entry.Roles = make([]waitlist.Role, len(dao.Roles))
	for i, r := range dao.Roles {
		entry.Roles[i] = waitlist.Role(r)
	}

	if dao.WalletAddress != nil {
		entry.WalletAddress = *dao.WalletAddress
	}
	if dao.Note != nil {
		entry.Note = *dao.Note
	}
	if dao.XHandle != nil {
		entry.XHandle = *dao.XHandle
	}
	if dao.VerificationToken != nil {
		entry.VerificationToken = *dao.VerificationToken
	}
	if dao.PostURL != nil {
		entry.PostURL = *dao.PostURL
	}

	return entry
}
