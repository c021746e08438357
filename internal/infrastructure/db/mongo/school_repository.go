package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edulink/school-system/internal/core/domain"
)

const schoolCollection = "schools"

type MongoSchoolRepository struct {
	coll *mongo.Collection
}

func NewSchoolRepository(db *mongo.Database) *MongoSchoolRepository {
	return &MongoSchoolRepository{coll: db.Collection(schoolCollection)}
}

type mongoSchool struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	City           string             `bson:"city,omitempty"`
	AdminAccountID string             `bson:"admin_account_id"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
}

func (r *MongoSchoolRepository) Create(ctx context.Context, school *domain.School) (*domain.School, error) {
	doc := mongoSchool{
		Name:           school.Name,
		City:           school.City,
		AdminAccountID: school.AdminAccountID,
		CreatedAt:      school.CreatedAt.Unix(),
		UpdatedAt:      school.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSchoolExists
		}
		return nil, fmt.Errorf("insert school: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, id.Hex())
}

func (r *MongoSchoolRepository) FindByID(ctx context.Context, id string) (*domain.School, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSchoolNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoSchoolRepository) FindByAdminAccountID(ctx context.Context, accountID string) (*domain.School, error) {
	return r.findOne(ctx, bson.M{"admin_account_id": accountID})
}

func (r *MongoSchoolRepository) List(ctx context.Context) ([]*domain.School, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.School
	for cur.Next(ctx) {
		var ms mongoSchool
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode school: %w", err)
		}
		out = append(out, ms.toDomain())
	}
	return out, cur.Err()
}

func (r *MongoSchoolRepository) findOne(ctx context.Context, filter bson.M) (*domain.School, error) {
	var ms mongoSchool
	if err := r.coll.FindOne(ctx, filter).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("find school: %w", err)
	}
	return ms.toDomain(), nil
}

func (ms *mongoSchool) toDomain() *domain.School {
	return &domain.School{
		ID:             ms.ID.Hex(),
		Name:           ms.Name,
		City:           ms.City,
		AdminAccountID: ms.AdminAccountID,
		CreatedAt:      unixToTime(ms.CreatedAt),
		UpdatedAt:      unixToTime(ms.UpdatedAt),
	}
}
