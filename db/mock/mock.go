package mock

import (
	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/queue"
)

// Compile-time check to ensure Db implements the DbApp interface
var _ db.DbApp = (*Db)(nil)

// Db implements db.DbApp for testing purposes.
// Use function fields to allow overriding behavior in specific tests.
type Db struct {
	// --- Mock DbAuth Methods ---
	GetUserByEmailFunc            func(email string) (*db.User, error)
	GetUserByIdFunc               func(id string) (*db.User, error)
	GetUserByEmailOrPhoneFunc     func(email, phone string) (*db.User, error)
	UpdatePasswordFunc            func(userId string, newPassword string) error
	InsertPendingRegistrationFunc func(p db.PendingRegistration) error
	GetPendingRegistrationFunc    func(email, otp string) (*db.PendingRegistration, error)
	ConfirmRegistrationFunc       func(pendingID int64, user db.User) (*db.User, error)
	InsertPasswordResetFunc       func(r db.PasswordReset) error
	GetPasswordResetByOtpFunc     func(email, otp string) (*db.PasswordReset, error)
	SetPasswordResetTokenFunc     func(id int64, token string) error
	GetPasswordResetByTokenFunc   func(email, resetToken string) (*db.PasswordReset, error)
	ConsumePasswordResetFunc      func(id int64) (bool, error)
	PurgeExpiredFunc              func() (int64, error)

	// --- Mock DbSocial Methods ---
	CreateGroupFunc         func(g db.Group) (*db.Group, error)
	GetGroupByIdFunc        func(id int64) (*db.Group, error)
	GetGroupByShareCodeFunc func(code string) (*db.Group, error)
	ListGroupsForUserFunc   func(userId string) ([]*db.Group, error)
	UpdateGroupFunc         func(id int64, name, description string) error
	DeleteGroupFunc         func(id int64) error
	SetGroupSharingFunc     func(id int64, shared bool) error
	IsMemberFunc            func(groupId int64, userId string) (bool, error)
	GetMemberFunc           func(groupId int64, userId string) (*db.GroupMember, error)
	AddMemberFunc           func(m db.GroupMember) (*db.GroupMember, error)
	RemoveMemberFunc        func(groupId int64, userId string) (bool, error)
	ListMembersFunc         func(groupId int64) ([]db.MemberInfo, error)
	SetMemberSharingFunc    func(groupId int64, userId string, shared bool) error
	CountMembersFunc        func(groupId int64, userIds []string) (int, error)
	CreatePostFunc          func(p db.Post) (*db.Post, error)
	ListGroupPostsFunc      func(groupId int64) ([]*db.Post, error)
	CreateStoryFunc         func(s db.Story, sharedWith []string) (*db.Story, error)
	ListGroupStoriesFunc    func(groupId int64, viewerId string) ([]*db.Story, error)

	// --- Mock DbQueue Methods ---
	InsertJobFunc              func(job queue.Job) error
	ClaimFunc                  func(limit int) ([]*queue.Job, error)
	MarkCompletedFunc          func(jobID int64) error
	MarkFailedFunc             func(jobID int64, errMsg string) error
	MarkRecurrentCompletedFunc func(completedJobID int64, newJob queue.Job) error
}

// --- Implement DbAuth ---

func (m *Db) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, nil // Default: Not found
}

func (m *Db) GetUserById(id string) (*db.User, error) {
	if m.GetUserByIdFunc != nil {
		return m.GetUserByIdFunc(id)
	}
	return nil, nil // Default: Not found
}

func (m *Db) GetUserByEmailOrPhone(email, phone string) (*db.User, error) {
	if m.GetUserByEmailOrPhoneFunc != nil {
		return m.GetUserByEmailOrPhoneFunc(email, phone)
	}
	return nil, nil // Default: Not found
}

func (m *Db) UpdatePassword(userId string, newPassword string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(userId, newPassword)
	}
	return nil
}

func (m *Db) InsertPendingRegistration(p db.PendingRegistration) error {
	if m.InsertPendingRegistrationFunc != nil {
		return m.InsertPendingRegistrationFunc(p)
	}
	return nil
}

func (m *Db) GetPendingRegistration(email, otp string) (*db.PendingRegistration, error) {
	if m.GetPendingRegistrationFunc != nil {
		return m.GetPendingRegistrationFunc(email, otp)
	}
	return nil, nil // Default: Not found
}

func (m *Db) ConfirmRegistration(pendingID int64, user db.User) (*db.User, error) {
	if m.ConfirmRegistrationFunc != nil {
		return m.ConfirmRegistrationFunc(pendingID, user)
	}
	// Default: Return the user passed in, assuming success
	user.Verified = true
	return &user, nil
}

func (m *Db) InsertPasswordReset(r db.PasswordReset) error {
	if m.InsertPasswordResetFunc != nil {
		return m.InsertPasswordResetFunc(r)
	}
	return nil
}

func (m *Db) GetPasswordResetByOtp(email, otp string) (*db.PasswordReset, error) {
	if m.GetPasswordResetByOtpFunc != nil {
		return m.GetPasswordResetByOtpFunc(email, otp)
	}
	return nil, nil // Default: Not found
}

func (m *Db) SetPasswordResetToken(id int64, token string) error {
	if m.SetPasswordResetTokenFunc != nil {
		return m.SetPasswordResetTokenFunc(id, token)
	}
	return nil
}

func (m *Db) GetPasswordResetByToken(email, resetToken string) (*db.PasswordReset, error) {
	if m.GetPasswordResetByTokenFunc != nil {
		return m.GetPasswordResetByTokenFunc(email, resetToken)
	}
	return nil, nil // Default: Not found
}

func (m *Db) ConsumePasswordReset(id int64) (bool, error) {
	if m.ConsumePasswordResetFunc != nil {
		return m.ConsumePasswordResetFunc(id)
	}
	return true, nil
}

func (m *Db) PurgeExpired() (int64, error) {
	if m.PurgeExpiredFunc != nil {
		return m.PurgeExpiredFunc()
	}
	return 0, nil
}

// --- Implement DbSocial ---

func (m *Db) CreateGroup(g db.Group) (*db.Group, error) {
	if m.CreateGroupFunc != nil {
		return m.CreateGroupFunc(g)
	}
	g.ID = 1
	return &g, nil
}

func (m *Db) GetGroupById(id int64) (*db.Group, error) {
	if m.GetGroupByIdFunc != nil {
		return m.GetGroupByIdFunc(id)
	}
	return nil, nil // Default: Not found
}

func (m *Db) GetGroupByShareCode(code string) (*db.Group, error) {
	if m.GetGroupByShareCodeFunc != nil {
		return m.GetGroupByShareCodeFunc(code)
	}
	return nil, nil // Default: Not found
}

func (m *Db) ListGroupsForUser(userId string) ([]*db.Group, error) {
	if m.ListGroupsForUserFunc != nil {
		return m.ListGroupsForUserFunc(userId)
	}
	return nil, nil
}

func (m *Db) UpdateGroup(id int64, name, description string) error {
	if m.UpdateGroupFunc != nil {
		return m.UpdateGroupFunc(id, name, description)
	}
	return nil
}

func (m *Db) DeleteGroup(id int64) error {
	if m.DeleteGroupFunc != nil {
		return m.DeleteGroupFunc(id)
	}
	return nil
}

func (m *Db) SetGroupSharing(id int64, shared bool) error {
	if m.SetGroupSharingFunc != nil {
		return m.SetGroupSharingFunc(id, shared)
	}
	return nil
}

func (m *Db) IsMember(groupId int64, userId string) (bool, error) {
	if m.IsMemberFunc != nil {
		return m.IsMemberFunc(groupId, userId)
	}
	return false, nil
}

func (m *Db) GetMember(groupId int64, userId string) (*db.GroupMember, error) {
	if m.GetMemberFunc != nil {
		return m.GetMemberFunc(groupId, userId)
	}
	return nil, nil // Default: Not found
}

func (m *Db) AddMember(member db.GroupMember) (*db.GroupMember, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(member)
	}
	member.ID = 1
	return &member, nil
}

func (m *Db) RemoveMember(groupId int64, userId string) (bool, error) {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(groupId, userId)
	}
	return true, nil
}

func (m *Db) ListMembers(groupId int64) ([]db.MemberInfo, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(groupId)
	}
	return nil, nil
}

func (m *Db) SetMemberSharing(groupId int64, userId string, shared bool) error {
	if m.SetMemberSharingFunc != nil {
		return m.SetMemberSharingFunc(groupId, userId, shared)
	}
	return nil
}

func (m *Db) CountMembers(groupId int64, userIds []string) (int, error) {
	if m.CountMembersFunc != nil {
		return m.CountMembersFunc(groupId, userIds)
	}
	return 0, nil
}

func (m *Db) CreatePost(p db.Post) (*db.Post, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(p)
	}
	p.ID = 1
	return &p, nil
}

func (m *Db) ListGroupPosts(groupId int64) ([]*db.Post, error) {
	if m.ListGroupPostsFunc != nil {
		return m.ListGroupPostsFunc(groupId)
	}
	return nil, nil
}

func (m *Db) CreateStory(s db.Story, sharedWith []string) (*db.Story, error) {
	if m.CreateStoryFunc != nil {
		return m.CreateStoryFunc(s, sharedWith)
	}
	s.ID = 1
	return &s, nil
}

func (m *Db) ListGroupStories(groupId int64, viewerId string) ([]*db.Story, error) {
	if m.ListGroupStoriesFunc != nil {
		return m.ListGroupStoriesFunc(groupId, viewerId)
	}
	return nil, nil
}

// --- Implement DbQueue ---

func (m *Db) InsertJob(job queue.Job) error {
	if m.InsertJobFunc != nil {
		return m.InsertJobFunc(job)
	}
	return nil
}

func (m *Db) Claim(limit int) ([]*queue.Job, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(limit)
	}
	return nil, nil
}

func (m *Db) MarkCompleted(jobID int64) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(jobID)
	}
	return nil
}

func (m *Db) MarkFailed(jobID int64, errMsg string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(jobID, errMsg)
	}
	return nil
}

func (m *Db) MarkRecurrentCompleted(completedJobID int64, newJob queue.Job) error {
	if m.MarkRecurrentCompletedFunc != nil {
		return m.MarkRecurrentCompletedFunc(completedJobID, newJob)
	}
	return nil
}
