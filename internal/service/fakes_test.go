package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"

	"gorm.io/datatypes"
)

// In-memory stores with the same contracts as the gorm repositories.

func ensureID(b *model.UUIDBase) {
	if b.ID == "" {
		b.ID = model.GenerateUUID()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

type fakeTeachers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeTeachers() *fakeTeachers {
	return &fakeTeachers{users: map[string]model.User{}}
}

func (f *fakeTeachers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ensureID(&u.UUIDBase)
	f.users[u.ID] = *u
	return nil
}

func (f *fakeTeachers) FindByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &u, nil
}

func (f *fakeTeachers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, util.ErrNotFound
}

type fakeStudents struct {
	mu       sync.Mutex
	students map[string]model.StudentAccount
}

func newFakeStudents(list ...model.StudentAccount) *fakeStudents {
	f := &fakeStudents{students: map[string]model.StudentAccount{}}
	for _, s := range list {
		f.students[s.ID] = s
	}
	return f
}

func (f *fakeStudents) Create(_ context.Context, s *model.StudentAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ensureID(&s.UUIDBase)
	f.students[s.ID] = *s
	return nil
}

func (f *fakeStudents) FindByID(_ context.Context, id string) (*model.StudentAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &s, nil
}

func (f *fakeStudents) FindByUsername(_ context.Context, username string) (*model.StudentAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.Username == username {
			return &s, nil
		}
	}
	return nil, util.ErrNotFound
}

func (f *fakeStudents) FindOwned(ctx context.Context, id, teacherID string) (*model.StudentAccount, error) {
	s, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.TeacherID != teacherID {
		return nil, util.ErrNotFound
	}
	return s, nil
}

func (f *fakeStudents) ListByTeacher(_ context.Context, teacherID string) ([]model.StudentAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StudentAccount
	for _, s := range f.students {
		if s.TeacherID == teacherID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStudents) Delete(_ context.Context, id, teacherID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok || s.TeacherID != teacherID {
		return util.ErrNotFound
	}
	delete(f.students, id)
	return nil
}

type fakeAssignments struct {
	mu    sync.Mutex
	items map[string]model.Assignment
	// inUse reports completed bindings, mirroring the guard on the real update.
	inUse func(assignmentID string) bool
}

func newFakeAssignments() *fakeAssignments {
	return &fakeAssignments{items: map[string]model.Assignment{}}
}

func (f *fakeAssignments) Create(_ context.Context, a *model.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ensureID(&a.UUIDBase)
	f.items[a.ID] = *a
	return nil
}

func (f *fakeAssignments) FindByID(_ context.Context, id string) (*model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAssignments) FindOwned(ctx context.Context, id, teacherID string) (*model.Assignment, error) {
	a, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.TeacherID != teacherID {
		return nil, util.ErrNotFound
	}
	return a, nil
}

func (f *fakeAssignments) FindByIDs(_ context.Context, ids []string) ([]model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Assignment
	for _, id := range ids {
		if a, ok := f.items[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignments) ListByTeacher(_ context.Context, teacherID string) ([]model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Assignment
	for _, a := range f.items {
		if a.TeacherID == teacherID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignments) UpdateContent(_ context.Context, a *model.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.items[a.ID]
	if !ok || cur.TeacherID != a.TeacherID {
		return util.ErrNotFound
	}
	if f.inUse != nil && f.inUse(a.ID) {
		return util.ErrAssignmentInUse
	}
	cur.Content = a.Content
	cur.Fallback = a.Fallback
	f.items[a.ID] = cur
	return nil
}

func (f *fakeAssignments) Delete(_ context.Context, id, teacherID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok || a.TeacherID != teacherID {
		return util.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeBindings struct {
	mu    sync.Mutex
	items map[string]model.StudentAssignment
	// raceLoser makes MarkCompleted report zero rows, as when a concurrent
	// submission got there first.
	raceLoser bool
}

func newFakeBindings() *fakeBindings {
	return &fakeBindings{items: map[string]model.StudentAssignment{}}
}

func (f *fakeBindings) Create(_ context.Context, sa *model.StudentAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ensureID(&sa.UUIDBase)
	f.items[sa.ID] = *sa
	return nil
}

func (f *fakeBindings) FindByID(_ context.Context, id string) (*model.StudentAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sa, ok := f.items[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &sa, nil
}

func (f *fakeBindings) Exists(_ context.Context, assignmentID, studentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sa := range f.items {
		if sa.AssignmentID == assignmentID && sa.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBindings) CountCompleted(_ context.Context, assignmentID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, sa := range f.items {
		if sa.AssignmentID == assignmentID && sa.Completed() {
			n++
		}
	}
	return n, nil
}

func (f *fakeBindings) ListByStudent(_ context.Context, studentID string) ([]model.StudentAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StudentAssignment
	for _, sa := range f.items {
		if sa.StudentID == studentID {
			out = append(out, sa)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out, nil
}

func (f *fakeBindings) ListCompletedByTeacher(_ context.Context, teacherID string) ([]model.StudentAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StudentAssignment
	for _, sa := range f.items {
		if sa.TeacherID == teacherID && sa.Completed() {
			out = append(out, sa)
		}
	}
	return out, nil
}

func (f *fakeBindings) MarkCompleted(_ context.Context, id string, answers model.SubmissionAnswers, score float64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sa, ok := f.items[id]
	if !ok || sa.Completed() || f.raceLoser {
		return false, nil
	}
	stored := datatypes.NewJSONType(answers)
	sa.State = model.StateCompleted
	sa.Answers = &stored
	sa.Score = &score
	sa.SubmittedAt = &at
	f.items[id] = sa
	return true, nil
}

type fakePoints struct {
	mu      sync.Mutex
	ledger  []model.PointTransaction
	failing error
}

func (f *fakePoints) Create(_ context.Context, tx *model.PointTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return f.failing
	}
	ensureID(&tx.UUIDBase)
	f.ledger = append(f.ledger, *tx)
	return nil
}

func (f *fakePoints) balanceLocked(studentID string) int {
	total := 0
	for _, tx := range f.ledger {
		if tx.StudentID == studentID {
			total += tx.Points
		}
	}
	return total
}

func (f *fakePoints) Balance(_ context.Context, studentID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balanceLocked(studentID), nil
}

func (f *fakePoints) Balances(_ context.Context, ids []string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for _, id := range ids {
		out[id] = f.balanceLocked(id)
	}
	return out, nil
}

func (f *fakePoints) ListByStudent(_ context.Context, studentID string) ([]model.PointTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PointTransaction
	for i := len(f.ledger) - 1; i >= 0; i-- {
		if f.ledger[i].StudentID == studentID {
			out = append(out, f.ledger[i])
		}
	}
	return out, nil
}

func (f *fakePoints) Redeem(_ context.Context, studentID string, reward *model.Reward) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current := f.balanceLocked(studentID)
	if current < reward.PointsCost {
		return 0, util.ErrInsufficientPoints
	}
	rewardID := reward.ID
	tx := model.PointTransaction{
		StudentID:   studentID,
		TeacherID:   reward.TeacherID,
		Points:      -reward.PointsCost,
		Type:        model.TransactionSpent,
		Description: "Redeemed: " + reward.Title,
		RewardID:    &rewardID,
	}
	ensureID(&tx.UUIDBase)
	f.ledger = append(f.ledger, tx)
	return current - reward.PointsCost, nil
}

func (f *fakePoints) entries(studentID string, typ model.TransactionType) []model.PointTransaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PointTransaction
	for _, tx := range f.ledger {
		if tx.StudentID == studentID && tx.Type == typ {
			out = append(out, tx)
		}
	}
	return out
}

type fakeRewards struct {
	mu    sync.Mutex
	items map[string]model.Reward
}

func newFakeRewards() *fakeRewards {
	return &fakeRewards{items: map[string]model.Reward{}}
}

func (f *fakeRewards) Create(_ context.Context, rewards ...*model.Reward) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rewards {
		ensureID(&r.UUIDBase)
		f.items[r.ID] = *r
	}
	return nil
}

func (f *fakeRewards) FindByID(_ context.Context, id string) (*model.Reward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRewards) ListByTeacher(_ context.Context, teacherID string, activeOnly bool) ([]model.Reward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Reward
	for _, r := range f.items {
		if r.TeacherID == teacherID && (!activeOnly || r.Active) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PointsCost < out[j].PointsCost })
	return out, nil
}

func (f *fakeRewards) CountByTeacher(ctx context.Context, teacherID string) (int64, error) {
	list, _ := f.ListByTeacher(ctx, teacherID, false)
	return int64(len(list)), nil
}

func (f *fakeRewards) Update(_ context.Context, r *model.Reward) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[r.ID]; !ok {
		return util.ErrNotFound
	}
	f.items[r.ID] = *r
	return nil
}

func (f *fakeRewards) Delete(_ context.Context, id, teacherID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok || r.TeacherID != teacherID {
		return util.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeMessages struct {
	mu    sync.Mutex
	items []model.Message
}

func (f *fakeMessages) Create(_ context.Context, m *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ensureID(&m.UUIDBase)
	f.items = append(f.items, *m)
	return nil
}

func (f *fakeMessages) Conversation(_ context.Context, a, b string) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Message
	for _, m := range f.items {
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, recipientID, senderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].RecipientID == recipientID && f.items[i].SenderID == senderID {
			f.items[i].Read = true
		}
	}
	return nil
}

func (f *fakeMessages) ListInvolving(_ context.Context, userID string) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Message
	for _, m := range f.items {
		if m.SenderID == userID || m.RecipientID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out, nil
}

type fakeLessonPlans struct {
	items []model.LessonPlan
}

func (f *fakeLessonPlans) Create(_ context.Context, p *model.LessonPlan) error {
	ensureID(&p.UUIDBase)
	f.items = append(f.items, *p)
	return nil
}

func (f *fakeLessonPlans) ListByTeacher(_ context.Context, teacherID string) ([]model.LessonPlan, error) {
	var out []model.LessonPlan
	for _, p := range f.items {
		if p.TeacherID == teacherID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSpellingLists struct {
	items map[string]model.SpellingList
}

func newFakeSpellingLists() *fakeSpellingLists {
	return &fakeSpellingLists{items: map[string]model.SpellingList{}}
}

func (f *fakeSpellingLists) Create(_ context.Context, l *model.SpellingList) error {
	ensureID(&l.UUIDBase)
	f.items[l.ID] = *l
	return nil
}

func (f *fakeSpellingLists) FindOwned(_ context.Context, id, teacherID string) (*model.SpellingList, error) {
	l, ok := f.items[id]
	if !ok || l.TeacherID != teacherID {
		return nil, util.ErrNotFound
	}
	return &l, nil
}

func (f *fakeSpellingLists) ListByTeacher(_ context.Context, teacherID string) ([]model.SpellingList, error) {
	var out []model.SpellingList
	for _, l := range f.items {
		if l.TeacherID == teacherID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeSpellingLists) Update(_ context.Context, l *model.SpellingList) error {
	if _, ok := f.items[l.ID]; !ok {
		return util.ErrNotFound
	}
	f.items[l.ID] = *l
	return nil
}

func (f *fakeSpellingLists) Delete(_ context.Context, id, teacherID string) error {
	l, ok := f.items[id]
	if !ok || l.TeacherID != teacherID {
		return util.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

// stubCompleter returns a canned reply, or err.
type stubCompleter struct {
	reply   string
	err     error
	prompts []string
	// during runs while the call is in flight.
	during func()
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.during != nil {
		s.during()
	}
	return s.reply, s.err
}

type recordingArchiver struct {
	raw map[string]string
	err error
}

func (r *recordingArchiver) ArchiveRawOutput(_ context.Context, id, raw string) error {
	if r.err != nil {
		return r.err
	}
	if r.raw == nil {
		r.raw = map[string]string{}
	}
	r.raw[id] = raw
	return nil
}

func (r *recordingArchiver) RawOutput(_ context.Context, id string) (string, error) {
	raw, ok := r.raw[id]
	if !ok {
		return "", util.ErrNotFound
	}
	return raw, nil
}

func (r *recordingArchiver) DropRawOutput(_ context.Context, id string) error {
	delete(r.raw, id)
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string][]WSMessage
}

func (n *recordingNotifier) Deliver(_ context.Context, recipientID string, msg WSMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = map[string][]WSMessage{}
	}
	n.sent[recipientID] = append(n.sent[recipientID], msg)
}

type failingAwarder struct{ calls int }

func (f *failingAwarder) Award(context.Context, string, string, string, int, string) error {
	f.calls++
	return errors.New("ledger unavailable")
}

func student(id, teacherID string) model.StudentAccount {
	return model.StudentAccount{
		UUIDBase:  model.UUIDBase{ID: id},
		FirstName: "Stu",
		LastName:  id,
		Username:  "user-" + id,
		TeacherID: teacherID,
	}
}
