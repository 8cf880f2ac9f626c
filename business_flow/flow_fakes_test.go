package businessflow

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/optiplan/optiplan/app/services"
	"github.com/optiplan/optiplan/models"
)

// In-memory repository fakes backing the flow tests. They implement the
// repository interfaces over plain maps and slices so flows can be tested
// without a database.

type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// recordingDispatcher records enqueued emails instead of delivering them
type recordingDispatcher struct {
	mu     sync.Mutex
	queued []services.EmailMessage
	err    error
}

func (d *recordingDispatcher) Enqueue(msg services.EmailMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.queued = append(d.queued, msg)
	return nil
}

func (d *recordingDispatcher) Start(ctx context.Context) func() {
	return func() {}
}

func (d *recordingDispatcher) messages() []services.EmailMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]services.EmailMessage, len(d.queued))
	copy(out, d.queued)
	return out
}

type fakeSelectionRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]*models.Selection
}

func newFakeSelectionRepo() *fakeSelectionRepo {
	return &fakeSelectionRepo{rows: make(map[uint]*models.Selection)}
}

func (r *fakeSelectionRepo) add(sel *models.Selection) *models.Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sel.ID == 0 {
		r.seq++
		sel.ID = r.seq
	} else if sel.ID > r.seq {
		r.seq = sel.ID
	}
	r.rows[sel.ID] = sel
	return sel
}

func (r *fakeSelectionRepo) get(id uint) *models.Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id]
}

func (r *fakeSelectionRepo) ByID(ctx context.Context, id uint) (*models.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (r *fakeSelectionRepo) matches(row *models.Selection, filter models.SelectionFilter) bool {
	if filter.ID != nil && row.ID != *filter.ID {
		return false
	}
	if filter.PracticeID != nil && row.PracticeID != *filter.PracticeID {
		return false
	}
	if filter.CampaignID != nil && (row.CampaignID == nil || *row.CampaignID != *filter.CampaignID) {
		return false
	}
	if filter.BespokeCampaignID != nil && (row.BespokeCampaignID == nil || *row.BespokeCampaignID != *filter.BespokeCampaignID) {
		return false
	}
	if filter.Status != nil && row.Status != *filter.Status {
		return false
	}
	if filter.Bespoke != nil && row.Bespoke != *filter.Bespoke {
		return false
	}
	return true
}

func (r *fakeSelectionRepo) ByFilter(ctx context.Context, filter models.SelectionFilter, orderBy string, limit, offset int) ([]*models.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Selection
	for _, row := range r.rows {
		if r.matches(row, filter) {
			clone := *row
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *fakeSelectionRepo) Save(ctx context.Context, entity *models.Selection) error {
	if err := entity.BeforeCreate(nil); err != nil {
		return err
	}
	r.add(entity)
	return nil
}

func (r *fakeSelectionRepo) SaveBatch(ctx context.Context, entities []*models.Selection) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeSelectionRepo) Count(ctx context.Context, filter models.SelectionFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *fakeSelectionRepo) ByUUID(ctx context.Context, uuid string) (*models.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UUID.String() == uuid {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeSelectionRepo) ListByPractice(ctx context.Context, practiceID uint, limit, offset int) ([]*models.Selection, error) {
	return r.ByFilter(ctx, models.SelectionFilter{PracticeID: &practiceID}, "", limit, offset)
}

func (r *fakeSelectionRepo) ListByStatus(ctx context.Context, status models.SelectionStatus, limit, offset int) ([]*models.Selection, error) {
	return r.ByFilter(ctx, models.SelectionFilter{Status: &status}, "", limit, offset)
}

func (r *fakeSelectionRepo) ListUpcoming(ctx context.Context, from, to time.Time) ([]*models.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Selection
	for _, row := range r.rows {
		if !row.FromDate.Before(from) && !row.FromDate.After(to) {
			clone := *row
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FromDate.Before(out[j].FromDate) })
	return out, nil
}

func (r *fakeSelectionRepo) Update(ctx context.Context, selection models.Selection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.rows[selection.ID]
	if stored == nil {
		return nil
	}
	// Preserve relations the update does not carry
	if selection.Campaign == nil {
		selection.Campaign = stored.Campaign
	}
	if selection.BespokeCampaign == nil {
		selection.BespokeCampaign = stored.BespokeCampaign
	}
	if selection.Practice == nil {
		selection.Practice = stored.Practice
	}
	r.rows[selection.ID] = &selection
	return nil
}

func (r *fakeSelectionRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

type fakeCommLogRepo struct {
	mu      sync.Mutex
	seq     uint
	entries []*models.CommunicationLog
}

func (r *fakeCommLogRepo) ByID(ctx context.Context, id uint) (*models.CommunicationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeCommLogRepo) ByFilter(ctx context.Context, filter models.CommunicationLogFilter, orderBy string, limit, offset int) ([]*models.CommunicationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.CommunicationLog, len(r.entries))
	copy(out, r.entries)
	return paginate(out, limit, offset), nil
}

func (r *fakeCommLogRepo) Save(ctx context.Context, entity *models.CommunicationLog) error {
	if err := entity.BeforeCreate(nil); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	entity.ID = r.seq
	r.entries = append(r.entries, entity)
	return nil
}

func (r *fakeCommLogRepo) SaveBatch(ctx context.Context, entities []*models.CommunicationLog) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeCommLogRepo) Count(ctx context.Context, filter models.CommunicationLogFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

func (r *fakeCommLogRepo) ListBySelection(ctx context.Context, selectionID uint) ([]*models.CommunicationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CommunicationLog
	for _, e := range r.entries {
		if e.SelectionID == selectionID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	seq  uint
	rows []*models.Notification
}

func (r *fakeNotificationRepo) ByID(ctx context.Context, id uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) ByFilter(ctx context.Context, filter models.NotificationFilter, orderBy string, limit, offset int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Notification, len(r.rows))
	copy(out, r.rows)
	return paginate(out, limit, offset), nil
}

func (r *fakeNotificationRepo) Save(ctx context.Context, entity *models.Notification) error {
	if err := entity.BeforeCreate(nil); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	entity.ID = r.seq
	r.rows = append(r.rows, entity)
	return nil
}

func (r *fakeNotificationRepo) SaveBatch(ctx context.Context, entities []*models.Notification) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Count(ctx context.Context, filter models.NotificationFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if filter.UserID != nil && n.UserID != *filter.UserID {
			continue
		}
		if filter.Unread != nil && *filter.Unread == (n.ReadAt != nil) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeNotificationRepo) ByUUID(ctx context.Context, uuid string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.UUID.String() == uuid {
			return n, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			out = append(out, r.rows[i])
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.ID == id {
			n.ReadAt = &at
			return nil
		}
	}
	return nil
}

func (r *fakeNotificationRepo) forUser(userID uint) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeUserRepo struct {
	mu   sync.Mutex
	rows map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[user.ID] = user
	return user
}

func (r *fakeUserRepo) ByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id], nil
}

func (r *fakeUserRepo) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.rows {
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *fakeUserRepo) Save(ctx context.Context, entity *models.User) error {
	if err := entity.BeforeCreate(nil); err != nil {
		return err
	}
	r.add(entity)
	return nil
}

func (r *fakeUserRepo) SaveBatch(ctx context.Context, entities []*models.User) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *fakeUserRepo) ByUUID(ctx context.Context, uuid string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.UUID.String() == uuid {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ByIDs(ctx context.Context, ids []uint) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, id := range ids {
		if u, ok := r.rows[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListByPractice(ctx context.Context, practiceID uint) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.rows {
		if u.MemberOf(practiceID) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ListPlanners(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.rows {
		if u.IsPlanner() && u.IsActive {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.rows[userID]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

type fakeAdminRepo struct {
	mu   sync.Mutex
	rows map[uint]*models.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{rows: make(map[uint]*models.Admin)}
}

func (r *fakeAdminRepo) add(admin *models.Admin) *models.Admin {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[admin.ID] = admin
	return admin
}

func (r *fakeAdminRepo) ByID(ctx context.Context, id uint) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id], nil
}

func (r *fakeAdminRepo) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Admin
	for _, a := range r.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *fakeAdminRepo) Save(ctx context.Context, entity *models.Admin) error {
	if err := entity.BeforeCreate(nil); err != nil {
		return err
	}
	r.add(entity)
	return nil
}

func (r *fakeAdminRepo) SaveBatch(ctx context.Context, entities []*models.Admin) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAdminRepo) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeAdminRepo) ByUUID(ctx context.Context, uuid string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.UUID.String() == uuid {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) ByEmail(ctx context.Context, email string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.rows[adminID]; ok {
		a.LastLoginAt = &at
	}
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	seq     uint
	entries []*models.AuditLog
}

func (r *fakeAuditRepo) ByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeAuditRepo) ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.AuditLog, len(r.entries))
	copy(out, r.entries)
	return paginate(out, limit, offset), nil
}

func (r *fakeAuditRepo) Save(ctx context.Context, entity *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	entity.ID = r.seq
	r.entries = append(r.entries, entity)
	return nil
}

func (r *fakeAuditRepo) SaveBatch(ctx context.Context, entities []*models.AuditLog) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAuditRepo) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

func (r *fakeAuditRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, e := range r.entries {
		if e.UserID != nil && *e.UserID == userID {
			out = append(out, e)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeAuditRepo) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeAuditRepo) ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, e := range r.entries {
		if e.Success != nil && !*e.Success {
			out = append(out, e)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeAuditRepo) last() *models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return nil
	}
	return r.entries[len(r.entries)-1]
}

type fakeCampaignRepo struct {
	mu   sync.Mutex
	rows map[uint]*models.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{rows: make(map[uint]*models.Campaign)}
}

func (r *fakeCampaignRepo) add(c *models.Campaign) *models.Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = c
	return c
}

func (r *fakeCampaignRepo) get(id uint) *models.Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id]
}

func (r *fakeCampaignRepo) ByID(ctx context.Context, id uint) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id], nil
}

func (r *fakeCampaignRepo) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Campaign
	for _, c := range r.rows {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if filter.Tier != nil && c.Tier != *filter.Tier {
			continue
		}
		if filter.Category != nil && c.Category != *filter.Category {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *fakeCampaignRepo) Save(ctx context.Context, entity *models.Campaign) error {
	if err := entity.BeforeCreate(nil); err != nil {
		return err
	}
	r.add(entity)
	return nil
}

func (r *fakeCampaignRepo) SaveBatch(ctx context.Context, entities []*models.Campaign) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeCampaignRepo) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *fakeCampaignRepo) ByUUID(ctx context.Context, uuid string) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.UUID.String() == uuid {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCampaignRepo) ListActive(ctx context.Context, limit, offset int) ([]*models.Campaign, error) {
	active := true
	return r.ByFilter(ctx, models.CampaignFilter{IsActive: &active}, "", limit, offset)
}

func (r *fakeCampaignRepo) ListByTier(ctx context.Context, tier models.CampaignTier) ([]*models.Campaign, error) {
	active := true
	return r.ByFilter(ctx, models.CampaignFilter{IsActive: &active, Tier: &tier}, "", 0, 0)
}

type fakeBespokeRepo struct {
	mu   sync.Mutex
	rows map[uint]*models.BespokeCampaign
}

func newFakeBespokeRepo() *fakeBespokeRepo {
	return &fakeBespokeRepo{rows: make(map[uint]*models.BespokeCampaign)}
}

func (r *fakeBespokeRepo) add(b *models.BespokeCampaign) *models.BespokeCampaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[b.ID] = b
	return b
}

func (r *fakeBespokeRepo) ByID(ctx context.Context, id uint) (*models.BespokeCampaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id], nil
}

func (r *fakeBespokeRepo) ByFilter(ctx context.Context, filter models.BespokeCampaignFilter, orderBy string, limit, offset int) ([]*models.BespokeCampaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.BespokeCampaign
	for _, b := range r.rows {
		if filter.PracticeID != nil && b.PracticeID != *filter.PracticeID {
			continue
		}
		if filter.IsActive != nil && b.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *fakeBespokeRepo) Save(ctx context.Context, entity *models.BespokeCampaign) error {
	if err := entity.BeforeCreate(nil); err != nil {
		return err
	}
	r.add(entity)
	return nil
}

func (r *fakeBespokeRepo) SaveBatch(ctx context.Context, entities []*models.BespokeCampaign) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeBespokeRepo) Count(ctx context.Context, filter models.BespokeCampaignFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *fakeBespokeRepo) ByUUID(ctx context.Context, uuid string) (*models.BespokeCampaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.rows {
		if b.UUID.String() == uuid {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBespokeRepo) ListByPractice(ctx context.Context, practiceID uint) ([]*models.BespokeCampaign, error) {
	active := true
	return r.ByFilter(ctx, models.BespokeCampaignFilter{PracticeID: &practiceID, IsActive: &active}, "", 0, 0)
}

type fakePracticeRepo struct {
	mu   sync.Mutex
	rows map[uint]*models.Practice
}

func newFakePracticeRepo() *fakePracticeRepo {
	return &fakePracticeRepo{rows: make(map[uint]*models.Practice)}
}

func (r *fakePracticeRepo) add(p *models.Practice) *models.Practice {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ID] = p
	return p
}

func (r *fakePracticeRepo) ByID(ctx context.Context, id uint) (*models.Practice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id], nil
}

func (r *fakePracticeRepo) ByFilter(ctx context.Context, filter models.PracticeFilter, orderBy string, limit, offset int) ([]*models.Practice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Practice
	for _, p := range r.rows {
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *fakePracticeRepo) Save(ctx context.Context, entity *models.Practice) error {
	if err := entity.BeforeCreate(nil); err != nil {
		return err
	}
	r.add(entity)
	return nil
}

func (r *fakePracticeRepo) SaveBatch(ctx context.Context, entities []*models.Practice) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakePracticeRepo) Count(ctx context.Context, filter models.PracticeFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *fakePracticeRepo) ByUUID(ctx context.Context, uuid string) (*models.Practice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.UUID.String() == uuid {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePracticeRepo) ByCode(ctx context.Context, code string) (*models.Practice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePracticeRepo) ListActive(ctx context.Context, limit, offset int) ([]*models.Practice, error) {
	active := true
	return r.ByFilter(ctx, models.PracticeFilter{IsActive: &active}, "", limit, offset)
}

func paginate[T any](rows []*T, limit, offset int) []*T {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
