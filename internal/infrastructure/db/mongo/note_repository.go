package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

const collectionNotes = "notes"

// NoteRepository implements ports.NoteRepository using MongoDB. ACL changes
// are single-document atomic updates, so concurrent grants and revokes on the
// same note never lose each other's writes.
type NoteRepository struct {
	col *mongo.Collection
}

var _ ports.NoteRepository = (*NoteRepository)(nil)

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{col: db.Collection(collectionNotes)}
}

type mongoNote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Category  string             `bson:"category"`
	UserIDs   []string           `bson:"user_ids"`
	CreatedAt time.Time          `bson:"created_at"`
	EditedAt  time.Time          `bson:"edited_at"`
}

func (m *mongoNote) toDomain() *domain.Note {
	ids := m.UserIDs
	if ids == nil {
		ids = []string{}
	}
	return &domain.Note{
		ID:        m.ID.Hex(),
		Title:     m.Title,
		Content:   m.Content,
		Category:  m.Category,
		UserIDs:   ids,
		CreatedAt: m.CreatedAt.UTC(),
		EditedAt:  m.EditedAt.UTC(),
	}
}

// Create inserts a new note and sets its ID.
func (r *NoteRepository) Create(ctx context.Context, n *domain.Note) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoNote{
		Title:     n.Title,
		Content:   n.Content,
		Category:  n.Category,
		UserIDs:   n.UserIDs,
		CreatedAt: n.CreatedAt,
		EditedAt:  n.EditedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid.Hex()
	}
	return nil
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoNote
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return m.toDomain(), nil
}

// ListByMember returns the user's notes, most recently edited first.
func (r *NoteRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "edited_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_ids": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoNote
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	notes := make([]*domain.Note, 0, len(docs))
	for i := range docs {
		notes = append(notes, docs[i].toDomain())
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, id string, upd ports.NoteUpdate) (*domain.Note, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	update := bson.M{"$set": bson.M{
		"title":     upd.Title,
		"content":   upd.Content,
		"category":  upd.Category,
		"edited_at": time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, update)
}

// AddMember pushes userID only when it is not already on the ACL.
func (r *NoteRepository) AddMember(ctx context.Context, id, userID string) (*domain.Note, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	filter := bson.M{"_id": oid, "user_ids": bson.M{"$ne": userID}}
	note, err := r.findOneAndUpdate(ctx, filter, bson.M{"$push": bson.M{"user_ids": userID}})
	if !errors.Is(err, domain.ErrNoteNotFound) {
		return note, err
	}

	// Nothing matched: either the note is gone or the user is already in.
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrAlreadyMember
}

func (r *NoteRepository) RemoveMember(ctx context.Context, id, userID string) (*domain.Note, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	// user_ids.1 exists only while a second member remains.
	filter := bson.M{"_id": oid, "user_ids": userID, "user_ids.1": bson.M{"$exists": true}}
	return r.findOneAndUpdate(ctx, filter, bson.M{"$pull": bson.M{"user_ids": userID}})
}

func (r *NoteRepository) DeleteIfSoleMember(ctx context.Context, id, userID string) (*domain.Note, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoNote
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid, "user_ids": bson.A{userID}}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete note: %w", err)
	}
	return m.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the notes collection.
func (r *NoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_ids", Value: 1}, {Key: "edited_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *NoteRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m mongoNote
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("update note: %w", err)
	}
	return m.toDomain(), nil
}
