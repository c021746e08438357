package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edulink/school-system/internal/core/domain"
)

const courseCollection = "courses"

type MongoCourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *MongoCourseRepository {
	return &MongoCourseRepository{coll: db.Collection(courseCollection)}
}

type mongoCourse struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	SchoolID       string             `bson:"school_id"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description,omitempty"`
	OwnerAccountID string             `bson:"owner_account_id"`
	ProfessorID    string             `bson:"professor_id,omitempty"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
}

func (r *MongoCourseRepository) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	doc := mongoCourse{
		SchoolID:       course.SchoolID,
		Title:          course.Title,
		Description:    course.Description,
		OwnerAccountID: course.OwnerAccountID,
		ProfessorID:    course.ProfessorID,
		CreatedAt:      course.CreatedAt.Unix(),
		UpdatedAt:      course.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, id.Hex())
}

func (r *MongoCourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCourseNotFound
	}

	var mc mongoCourse
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoCourseRepository) ListBySchool(ctx context.Context, schoolID string) ([]*domain.Course, error) {
	cur, err := r.coll.Find(ctx, bson.M{"school_id": schoolID})
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Course
	for cur.Next(ctx) {
		var mc mongoCourse
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode course: %w", err)
		}
		out = append(out, mc.toDomain())
	}
	return out, cur.Err()
}

func (mc *mongoCourse) toDomain() *domain.Course {
	return &domain.Course{
		ID:             mc.ID.Hex(),
		SchoolID:       mc.SchoolID,
		Title:          mc.Title,
		Description:    mc.Description,
		OwnerAccountID: mc.OwnerAccountID,
		ProfessorID:    mc.ProfessorID,
		CreatedAt:      unixToTime(mc.CreatedAt),
		UpdatedAt:      unixToTime(mc.UpdatedAt),
	}
}
