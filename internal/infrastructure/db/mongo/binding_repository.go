package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edulink/school-system/internal/core/domain"
)

const (
	staffCollection     = "staff_records"
	professorCollection = "professor_records"
	studentCollection   = "student_records"
)

// MongoRoleBindingRepository stores the role-specific records linking
// accounts to schools, one collection per record shape.
type MongoRoleBindingRepository struct {
	staff      *mongo.Collection
	professors *mongo.Collection
	students   *mongo.Collection
}

func NewRoleBindingRepository(db *mongo.Database) *MongoRoleBindingRepository {
	return &MongoRoleBindingRepository{
		staff:      db.Collection(staffCollection),
		professors: db.Collection(professorCollection),
		students:   db.Collection(studentCollection),
	}
}

type mongoStaffRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AccountID string             `bson:"account_id"`
	SchoolID  string             `bson:"school_id"`
	StaffType string             `bson:"staff_type"`
	IsActive  bool               `bson:"is_active"`
	CreatedAt int64              `bson:"created_at"`
}

type mongoProfessorRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AccountID string             `bson:"account_id"`
	SchoolID  string             `bson:"school_id"`
	Subject   string             `bson:"subject,omitempty"`
	IsActive  bool               `bson:"is_active"`
	CreatedAt int64              `bson:"created_at"`
}

type mongoStudentRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AccountID string             `bson:"account_id"`
	SchoolID  string             `bson:"school_id"`
	Grade     string             `bson:"grade,omitempty"`
	IsActive  bool               `bson:"is_active"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *MongoRoleBindingRepository) FindStaffByAccount(ctx context.Context, accountID string) ([]*domain.StaffRecord, error) {
	cur, err := r.staff.Find(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return nil, fmt.Errorf("find staff records: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.StaffRecord
	for cur.Next(ctx) {
		var ms mongoStaffRecord
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode staff record: %w", err)
		}
		out = append(out, &domain.StaffRecord{
			ID:        ms.ID.Hex(),
			AccountID: ms.AccountID,
			SchoolID:  ms.SchoolID,
			StaffType: domain.StaffType(ms.StaffType),
			IsActive:  ms.IsActive,
			CreatedAt: unixToTime(ms.CreatedAt),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrBindingNotFound
	}
	return out, nil
}

func (r *MongoRoleBindingRepository) FindProfessorByAccount(ctx context.Context, accountID string) (*domain.ProfessorRecord, error) {
	var mp mongoProfessorRecord
	if err := r.professors.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBindingNotFound
		}
		return nil, fmt.Errorf("find professor record: %w", err)
	}
	return &domain.ProfessorRecord{
		ID:        mp.ID.Hex(),
		AccountID: mp.AccountID,
		SchoolID:  mp.SchoolID,
		Subject:   mp.Subject,
		IsActive:  mp.IsActive,
		CreatedAt: unixToTime(mp.CreatedAt),
	}, nil
}

func (r *MongoRoleBindingRepository) FindStudentByAccount(ctx context.Context, accountID string) (*domain.StudentRecord, error) {
	var ms mongoStudentRecord
	if err := r.students.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBindingNotFound
		}
		return nil, fmt.Errorf("find student record: %w", err)
	}
	return &domain.StudentRecord{
		ID:        ms.ID.Hex(),
		AccountID: ms.AccountID,
		SchoolID:  ms.SchoolID,
		Grade:     ms.Grade,
		IsActive:  ms.IsActive,
		CreatedAt: unixToTime(ms.CreatedAt),
	}, nil
}

func (r *MongoRoleBindingRepository) CreateStaff(ctx context.Context, rec *domain.StaffRecord) (*domain.StaffRecord, error) {
	doc := mongoStaffRecord{
		AccountID: rec.AccountID,
		SchoolID:  rec.SchoolID,
		StaffType: string(rec.StaffType),
		IsActive:  rec.IsActive,
		CreatedAt: rec.CreatedAt.Unix(),
	}
	res, err := r.staff.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert staff record: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	out := *rec
	out.ID = id.Hex()
	return &out, nil
}

func (r *MongoRoleBindingRepository) CreateProfessor(ctx context.Context, rec *domain.ProfessorRecord) (*domain.ProfessorRecord, error) {
	doc := mongoProfessorRecord{
		AccountID: rec.AccountID,
		SchoolID:  rec.SchoolID,
		Subject:   rec.Subject,
		IsActive:  rec.IsActive,
		CreatedAt: rec.CreatedAt.Unix(),
	}
	res, err := r.professors.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert professor record: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	out := *rec
	out.ID = id.Hex()
	return &out, nil
}

func (r *MongoRoleBindingRepository) CreateStudent(ctx context.Context, rec *domain.StudentRecord) (*domain.StudentRecord, error) {
	doc := mongoStudentRecord{
		AccountID: rec.AccountID,
		SchoolID:  rec.SchoolID,
		Grade:     rec.Grade,
		IsActive:  rec.IsActive,
		CreatedAt: rec.CreatedAt.Unix(),
	}
	res, err := r.students.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert student record: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	out := *rec
	out.ID = id.Hex()
	return &out, nil
}
