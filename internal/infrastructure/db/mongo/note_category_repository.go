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

const collectionNoteCategories = "note_categories"

// NoteCategoryRepository stores note to category links, one document per pair.
type NoteCategoryRepository struct {
	col *mongo.Collection
}

var _ ports.NoteCategoryRepository = (*NoteCategoryRepository)(nil)

func NewNoteCategoryRepository(db *mongo.Database) *NoteCategoryRepository {
	return &NoteCategoryRepository{col: db.Collection(collectionNoteCategories)}
}

type mongoNoteCategory struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	NoteID     string             `bson:"note_id"`
	CategoryID string             `bson:"category_id"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (m *mongoNoteCategory) toDomain() *domain.NoteCategory {
	return &domain.NoteCategory{
		ID:         m.ID.Hex(),
		NoteID:     m.NoteID,
		CategoryID: m.CategoryID,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

func (r *NoteCategoryRepository) Create(ctx context.Context, link *domain.NoteCategory) (*domain.NoteCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoNoteCategory{NoteID: link.NoteID, CategoryID: link.CategoryID, CreatedAt: link.CreatedAt}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrNoteCategoryExists
		}
		return nil, fmt.Errorf("insert note category: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *NoteCategoryRepository) FindByID(ctx context.Context, id string) (*domain.NoteCategory, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNoteCategoryNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *NoteCategoryRepository) FindByNoteAndCategory(ctx context.Context, noteID, categoryID string) (*domain.NoteCategory, error) {
	return r.findOne(ctx, bson.M{"note_id": noteID, "category_id": categoryID})
}

func (r *NoteCategoryRepository) ListByNote(ctx context.Context, noteID string) ([]*domain.NoteCategory, error) {
	return r.list(ctx, bson.M{"note_id": noteID})
}

func (r *NoteCategoryRepository) ListByCategory(ctx context.Context, categoryID string) ([]*domain.NoteCategory, error) {
	return r.list(ctx, bson.M{"category_id": categoryID})
}

func (r *NoteCategoryRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return domain.ErrNoteCategoryNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete note category: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNoteCategoryNotFound
	}
	return nil
}

// EnsureIndexes makes each (note, category) pair unique and indexes lookups
// by category.
func (r *NoteCategoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "note_id", Value: 1}, {Key: "category_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *NoteCategoryRepository) findOne(ctx context.Context, filter bson.M) (*domain.NoteCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoNoteCategory
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteCategoryNotFound
		}
		return nil, fmt.Errorf("find note category: %w", err)
	}
	return m.toDomain(), nil
}

func (r *NoteCategoryRepository) list(ctx context.Context, filter bson.M) ([]*domain.NoteCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list note categories: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoNoteCategory
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode note categories: %w", err)
	}
	out := make([]*domain.NoteCategory, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
