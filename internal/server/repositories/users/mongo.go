package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/server/models"
)

// userDocument is the stored shape of a user.
type userDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	FullName   string             `bson:"fullname"`
	Email      string             `bson:"email"`
	Properties []models.Property  `bson:"properties"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:         d.ID.Hex(),
		FullName:   d.FullName,
		Email:      d.Email,
		Properties: cloneProperties(d.Properties),
	}
}

// MongoRepository keeps users in a single MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) List(ctx context.Context) ([]*models.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	users := make([]*models.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toModel())
	}
	return users, nil
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (string, error) {
	doc := userDocument{
		ID:         primitive.NewObjectID(),
		FullName:   user.FullName,
		Email:      user.Email,
		Properties: cloneProperties(user.Properties),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}

	return doc.ID.Hex(), nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) FindByPropertyID(ctx context.Context, propertyID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"properties.id_proper": bson.M{"$in": bson.A{propertyID}}})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.UpdateResult, error) {
	if upd == nil || upd.IsEmpty() {
		return nil, common.ErrEmptyUpdate
	}

	set := bson.M{}
	if upd.FullName != nil {
		set["fullname"] = *upd.FullName
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Properties != nil {
		set["properties"] = cloneProperties(upd.Properties)
	}

	return r.updateOne(ctx, id, set)
}

func (r *MongoRepository) SetProperties(ctx context.Context, id string, props []models.Property) (*models.UpdateResult, error) {
	return r.updateOne(ctx, id, bson.M{"properties": cloneProperties(props)})
}

func (r *MongoRepository) updateOne(ctx context.Context, id string, set bson.M) (*models.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrInvalidID
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, common.ErrorNotFound
	}

	return &models.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrInvalidID
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
