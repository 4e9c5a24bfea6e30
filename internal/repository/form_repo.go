package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formforge/internal/model"
)

// FormRepo handles MongoDB operations for forms. Not-found is reported
// as a nil form with a nil error; callers decide how to surface it.
type FormRepo interface {
	Create(ctx context.Context, form *model.Form) (string, error)
	GetByID(ctx context.Context, id string) (*model.Form, error)
	Update(ctx context.Context, form *model.Form) (*model.Form, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*model.Form, error)
}

type formRepo struct {
	collection *mongo.Collection
}

// NewFormRepo creates a new form repository
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{
		collection: db.Collection("forms"),
	}
}

func (r *formRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	now := time.Now()
	form.CreatedAt = now
	form.UpdatedAt = now
	form.ID = ""

	doc := toDocument(form, primitive.NewObjectID())

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	form.ID = oid.Hex()
	return form.ID, nil
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc formDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// Update replaces the stored document wholesale (last write wins).
// CreatedAt is taken from the existing document; UpdatedAt is refreshed.
func (r *formRepo) Update(ctx context.Context, form *model.Form) (*model.Form, error) {
	oid, err := primitive.ObjectIDFromHex(form.ID)
	if err != nil {
		return nil, nil
	}

	existing, err := r.GetByID(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	form.CreatedAt = existing.CreatedAt
	form.UpdatedAt = time.Now()

	doc := toDocument(form, oid)
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, nil
	}
	return form, nil
}

func (r *formRepo) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// List returns all forms, newest first
func (r *formRepo) List(ctx context.Context) ([]*model.Form, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []formDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	forms := make([]*model.Form, 0, len(docs))
	for i := range docs {
		forms = append(forms, docs[i].toModel())
	}
	return forms, nil
}

// formDocument is the stored shape: identical to model.Form except the
// id is a real ObjectID rather than its hex rendering.
type formDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description,omitempty"`
	HeaderImageURL string             `bson:"headerImageUrl,omitempty"`
	Questions      []model.Question   `bson:"questions"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func toDocument(form *model.Form, oid primitive.ObjectID) formDocument {
	return formDocument{
		ID:             oid,
		Title:          form.Title,
		Description:    form.Description,
		HeaderImageURL: form.HeaderImageURL,
		Questions:      form.Questions,
		CreatedAt:      form.CreatedAt,
		UpdatedAt:      form.UpdatedAt,
	}
}

func (d *formDocument) toModel() *model.Form {
	return &model.Form{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Description:    d.Description,
		HeaderImageURL: d.HeaderImageURL,
		Questions:      d.Questions,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
