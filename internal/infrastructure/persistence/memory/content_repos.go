package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/forum"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/news"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/partner"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/shared"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/subject"
)

// ─────────────────────────────────────────────────────────────────────────────
// SubjectRepository
// ─────────────────────────────────────────────────────────────────────────────

// SubjectRepository implements subject.Repository in memory.
type SubjectRepository struct {
	mu       sync.RWMutex
	subjects map[int64]subject.Subject
	nextID   int64
}

// NewSubjectRepository creates an empty subject repository.
func NewSubjectRepository() *SubjectRepository {
	return &SubjectRepository{subjects: make(map[int64]subject.Subject), nextID: 1}
}

// Create implements subject.Repository.
func (r *SubjectRepository) Create(ctx context.Context, s *subject.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.subjects {
		if existing.Name == s.Name {
			return shared.ErrSubjectExists
		}
	}
	s.ID = r.nextID
	r.nextID++
	r.subjects[s.ID] = *s
	return nil
}

// GetByID implements subject.Repository.
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*subject.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.subjects[id]
	if !ok {
		return nil, shared.ErrSubjectNotFound
	}
	return &s, nil
}

// List implements subject.Repository.
func (r *SubjectRepository) List(ctx context.Context) ([]*subject.Subject, error) {
	r.mu.RLock()
	out := make([]*subject.Subject, 0, len(r.subjects))
	for _, stored := range r.subjects {
		s := stored
		out = append(out, &s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update implements subject.Repository.
func (r *SubjectRepository) Update(ctx context.Context, s *subject.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subjects[s.ID]; !ok {
		return shared.ErrSubjectNotFound
	}
	r.subjects[s.ID] = *s
	return nil
}

// Delete implements subject.Repository.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subjects[id]; !ok {
		return shared.ErrSubjectNotFound
	}
	delete(r.subjects, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// NewsRepository
// ─────────────────────────────────────────────────────────────────────────────

// NewsRepository implements news.Repository in memory.
type NewsRepository struct {
	mu     sync.RWMutex
	items  map[int64]news.News
	nextID int64
}

// NewNewsRepository creates an empty news repository.
func NewNewsRepository() *NewsRepository {
	return &NewsRepository{items: make(map[int64]news.News), nextID: 1}
}

// Create implements news.Repository.
func (r *NewsRepository) Create(ctx context.Context, n *news.News) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = r.nextID
	r.nextID++
	r.items[n.ID] = *n
	return nil
}

// GetByID implements news.Repository.
func (r *NewsRepository) GetByID(ctx context.Context, id int64) (*news.News, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNewsNotFound
	}
	return &n, nil
}

// List implements news.Repository.
func (r *NewsRepository) List(ctx context.Context, f news.Filter) ([]*news.News, error) {
	r.mu.RLock()
	matched := make([]*news.News, 0)
	for _, stored := range r.items {
		n := stored
		if !n.IsActive {
			continue
		}
		if f.Kind != "" && n.Kind != f.Kind {
			continue
		}
		if f.FeaturedOnly && !n.IsFeatured {
			continue
		}
		matched = append(matched, &n)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

// Update implements news.Repository.
func (r *NewsRepository) Update(ctx context.Context, n *news.News) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[n.ID]; !ok {
		return shared.ErrNewsNotFound
	}
	r.items[n.ID] = *n
	return nil
}

// Delete implements news.Repository.
func (r *NewsRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return shared.ErrNewsNotFound
	}
	delete(r.items, id)
	return nil
}

// IncrementViews implements news.Repository.
func (r *NewsRepository) IncrementViews(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok {
		return shared.ErrNewsNotFound
	}
	n.ViewsCount++
	r.items[id] = n
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// PartnerRepository
// ─────────────────────────────────────────────────────────────────────────────

// PartnerRepository implements partner.Repository in memory.
type PartnerRepository struct {
	mu     sync.RWMutex
	locs   map[int64]partner.Location
	nextID int64
}

// NewPartnerRepository creates an empty partner repository.
func NewPartnerRepository() *PartnerRepository {
	return &PartnerRepository{locs: make(map[int64]partner.Location), nextID: 1}
}

// Create implements partner.Repository.
func (r *PartnerRepository) Create(ctx context.Context, p *partner.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextID
	r.nextID++
	r.locs[p.ID] = *p
	return nil
}

// GetByID implements partner.Repository.
func (r *PartnerRepository) GetByID(ctx context.Context, id int64) (*partner.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.locs[id]
	if !ok {
		return nil, shared.ErrPartnerNotFound
	}
	return &p, nil
}

// List implements partner.Repository.
func (r *PartnerRepository) List(ctx context.Context, city string, typ partner.Type, offset, limit int) ([]*partner.Location, error) {
	r.mu.RLock()
	matched := make([]*partner.Location, 0)
	for _, stored := range r.locs {
		p := stored
		if !p.IsActive {
			continue
		}
		if city != "" && p.City != city {
			continue
		}
		if typ != "" && p.Type != typ {
			continue
		}
		matched = append(matched, &p)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// Update implements partner.Repository.
func (r *PartnerRepository) Update(ctx context.Context, p *partner.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.locs[p.ID]; !ok {
		return shared.ErrPartnerNotFound
	}
	r.locs[p.ID] = *p
	return nil
}

// Delete implements partner.Repository.
func (r *PartnerRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.locs[id]; !ok {
		return shared.ErrPartnerNotFound
	}
	delete(r.locs, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ForumRepository
// ─────────────────────────────────────────────────────────────────────────────

// ForumRepository implements forum.Repository in memory.
type ForumRepository struct {
	mu          sync.RWMutex
	topics      map[int64]forum.Topic
	replies     map[int64]forum.Reply
	nextTopicID int64
	nextReplyID int64
}

// NewForumRepository creates an empty forum repository.
func NewForumRepository() *ForumRepository {
	return &ForumRepository{
		topics:      make(map[int64]forum.Topic),
		replies:     make(map[int64]forum.Reply),
		nextTopicID: 1,
		nextReplyID: 1,
	}
}

// CreateTopic implements forum.Repository.
func (r *ForumRepository) CreateTopic(ctx context.Context, t *forum.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = r.nextTopicID
	r.nextTopicID++
	r.topics[t.ID] = *t
	return nil
}

// GetTopic implements forum.Repository.
func (r *ForumRepository) GetTopic(ctx context.Context, id int64) (*forum.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.topics[id]
	if !ok {
		return nil, shared.ErrTopicNotFound
	}
	return &t, nil
}

// ListTopics implements forum.Repository.
func (r *ForumRepository) ListTopics(ctx context.Context, subjectID int64, offset, limit int) ([]*forum.Topic, error) {
	r.mu.RLock()
	matched := make([]*forum.Topic, 0)
	for _, stored := range r.topics {
		t := stored
		if subjectID != 0 && t.SubjectID != subjectID {
			continue
		}
		matched = append(matched, &t)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// UpdateTopic implements forum.Repository.
func (r *ForumRepository) UpdateTopic(ctx context.Context, t *forum.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.topics[t.ID]; !ok {
		return shared.ErrTopicNotFound
	}
	r.topics[t.ID] = *t
	return nil
}

// DeleteTopic implements forum.Repository.
func (r *ForumRepository) DeleteTopic(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.topics[id]; !ok {
		return shared.ErrTopicNotFound
	}
	delete(r.topics, id)
	for rid, reply := range r.replies {
		if reply.TopicID == id {
			delete(r.replies, rid)
		}
	}
	return nil
}

// CreateReply implements forum.Repository.
func (r *ForumRepository) CreateReply(ctx context.Context, reply *forum.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	topic, ok := r.topics[reply.TopicID]
	if !ok {
		return shared.ErrTopicNotFound
	}
	reply.ID = r.nextReplyID
	r.nextReplyID++
	r.replies[reply.ID] = *reply

	topic.RepliesCount++
	r.topics[topic.ID] = topic
	return nil
}

// GetReply implements forum.Repository.
func (r *ForumRepository) GetReply(ctx context.Context, id int64) (*forum.Reply, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reply, ok := r.replies[id]
	if !ok {
		return nil, shared.ErrReplyNotFound
	}
	return &reply, nil
}

// ListReplies implements forum.Repository.
func (r *ForumRepository) ListReplies(ctx context.Context, topicID int64) ([]*forum.Reply, error) {
	r.mu.RLock()
	matched := make([]*forum.Reply, 0)
	for _, stored := range r.replies {
		reply := stored
		if reply.TopicID == topicID {
			matched = append(matched, &reply)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	return matched, nil
}

// UpdateReply implements forum.Repository.
func (r *ForumRepository) UpdateReply(ctx context.Context, reply *forum.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.replies[reply.ID]; !ok {
		return shared.ErrReplyNotFound
	}
	r.replies[reply.ID] = *reply
	return nil
}

// DeleteReply implements forum.Repository.
func (r *ForumRepository) DeleteReply(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reply, ok := r.replies[id]
	if !ok {
		return shared.ErrReplyNotFound
	}
	delete(r.replies, id)
	if topic, ok := r.topics[reply.TopicID]; ok && topic.RepliesCount > 0 {
		topic.RepliesCount--
		r.topics[topic.ID] = topic
	}
	return nil
}
