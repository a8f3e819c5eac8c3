package db

import (
	"github.com/grouplet/grouplet/queue"
)

// DbAuth covers everything the authentication flows need: user identity
// plus the two short-lived side tables (pending registrations and password
// resets). The concrete implementation lives in db/zombiezen.
type DbAuth interface {
	// GetUserByEmail returns the user bound to email, or (nil, nil) when no
	// such user exists. An error means the query itself failed.
	GetUserByEmail(email string) (*User, error)
	GetUserById(id string) (*User, error)

	// GetUserByEmailOrPhone returns any user already holding either key.
	// An empty phone only matches on email.
	GetUserByEmailOrPhone(email, phone string) (*User, error)

	// UpdatePassword overwrites the stored password hash.
	UpdatePassword(userId string, newPassword string) error

	InsertPendingRegistration(p PendingRegistration) error

	// GetPendingRegistration returns the newest non-expired row matching
	// (email, otp), or (nil, nil) when none is usable.
	GetPendingRegistration(email, otp string) (*PendingRegistration, error)

	// ConfirmRegistration atomically creates the user and deletes the
	// consumed pending row. ErrConstraintUnique reports a concurrent
	// registration that won the email/phone unique index.
	ConfirmRegistration(pendingID int64, user User) (*User, error)

	InsertPasswordReset(r PasswordReset) error

	// GetPasswordResetByOtp returns the newest non-expired row matching
	// (email, otp), or (nil, nil).
	GetPasswordResetByOtp(email, otp string) (*PasswordReset, error)

	// SetPasswordResetToken attaches the reset credential after OTP
	// verification.
	SetPasswordResetToken(id int64, token string) error

	// GetPasswordResetByToken returns the newest non-expired row matching
	// (email, resetToken), or (nil, nil).
	GetPasswordResetByToken(email, resetToken string) (*PasswordReset, error)

	// ConsumePasswordReset deletes the reset row. The boolean reports
	// whether this call actually removed it, so concurrent completions
	// cannot both succeed.
	ConsumePasswordReset(id int64) (bool, error)

	// PurgeExpired removes expired pending registrations and password
	// resets. Returns the number of rows deleted.
	PurgeExpired() (int64, error)
}

// DbSocial covers groups, membership, posts and stories.
type DbSocial interface {
	// CreateGroup inserts the group and the creator's membership row in one
	// transaction.
	CreateGroup(g Group) (*Group, error)
	GetGroupById(id int64) (*Group, error)
	GetGroupByShareCode(code string) (*Group, error)

	// ListGroupsForUser returns groups the user created or is a member of.
	ListGroupsForUser(userId string) ([]*Group, error)
	UpdateGroup(id int64, name, description string) error
	DeleteGroup(id int64) error
	SetGroupSharing(id int64, shared bool) error

	IsMember(groupId int64, userId string) (bool, error)
	GetMember(groupId int64, userId string) (*GroupMember, error)
	AddMember(m GroupMember) (*GroupMember, error)
	RemoveMember(groupId int64, userId string) (bool, error)
	ListMembers(groupId int64) ([]MemberInfo, error)
	SetMemberSharing(groupId int64, userId string, shared bool) error

	// CountMembers returns how many of userIds are members of the group.
	CountMembers(groupId int64, userIds []string) (int, error)

	CreatePost(p Post) (*Post, error)

	// ListGroupPosts returns the group's posts newest first, with author
	// names resolved.
	ListGroupPosts(groupId int64) ([]*Post, error)

	// CreateStory inserts the story and its share rows in one transaction.
	// sharedWith lists the member user ids the story is visible to; the
	// author always sees their own stories.
	CreateStory(s Story, sharedWith []string) (*Story, error)

	// ListGroupStories returns non-expired stories the viewer can see.
	ListGroupStories(groupId int64, viewerId string) ([]*Story, error)
}

// DbQueue is the job queue persistence role used by the scheduler and the
// handlers that enqueue work.
type DbQueue interface {
	// InsertJob adds a job. ErrConstraintUnique reports a duplicate
	// (job_type, payload) pair, which is how cooldown-bucket deduplication
	// surfaces.
	InsertJob(job queue.Job) error

	// Claim marks up to limit due jobs as processing and returns them.
	Claim(limit int) ([]*queue.Job, error)

	MarkCompleted(jobID int64) error
	MarkFailed(jobID int64, errMsg string) error

	// MarkRecurrentCompleted completes a recurrent job and inserts its next
	// occurrence in one transaction.
	MarkRecurrentCompleted(completedJobID int64, newJob queue.Job) error
}

// DbApp combines the roles the application wires together. The concrete
// implementation (*zombiezen.Db) must satisfy it.
type DbApp interface {
	DbAuth
	DbSocial
	DbQueue
}
