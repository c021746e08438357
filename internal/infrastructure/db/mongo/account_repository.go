package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edulink/school-system/internal/core/domain"
)

const accountCollection = "accounts"

type MongoAccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Username            string             `bson:"username"`
	Email               string             `bson:"email,omitempty"`
	PasswordHash        string             `bson:"password_hash"`
	UserType            string             `bson:"user_type"`
	SchoolID            string             `bson:"school_id,omitempty"`
	IsActive            bool               `bson:"is_active"`
	FailedLoginAttempts int                `bson:"failed_login_attempts"`
	LastLoginAttempt    int64              `bson:"last_login_attempt,omitempty"`
	TokenRevokedAt      int64              `bson:"token_revoked_at,omitempty"`
	CreatedAt           int64              `bson:"created_at"`
	UpdatedAt           int64              `bson:"updated_at"`
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := mongoAccount{
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		UserType:     string(account.UserType),
		SchoolID:     account.SchoolID,
		IsActive:     account.IsActive,
		CreatedAt:    account.CreatedAt.Unix(),
		UpdatedAt:    account.UpdatedAt.Unix(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	// fetch back to get ID
	return r.FindByUsername(ctx, account.Username)
}

func (r *MongoAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *MongoAccountRepository) RecordLoginFailure(ctx context.Context, username string, attempts int, at time.Time, deactivate bool) error {
	set := bson.M{
		"failed_login_attempts": attempts,
		"last_login_attempt":    at.Unix(),
		"updated_at":            at.Unix(),
	}
	if deactivate {
		set["is_active"] = false
	}
	return r.update(ctx, username, set)
}

func (r *MongoAccountRepository) RecordLoginSuccess(ctx context.Context, username string, at time.Time) error {
	return r.update(ctx, username, bson.M{
		"failed_login_attempts": 0,
		"last_login_attempt":    at.Unix(),
		"updated_at":            at.Unix(),
	})
}

func (r *MongoAccountRepository) SetTokenRevokedAt(ctx context.Context, username string, at time.Time) error {
	return r.update(ctx, username, bson.M{
		"token_revoked_at": at.Unix(),
		"updated_at":       at.Unix(),
	})
}

func (r *MongoAccountRepository) update(ctx context.Context, username string, set bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (ma *mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:                  ma.ID.Hex(),
		Username:            ma.Username,
		Email:               ma.Email,
		PasswordHash:        ma.PasswordHash,
		UserType:            domain.UserType(ma.UserType),
		SchoolID:            ma.SchoolID,
		IsActive:            ma.IsActive,
		FailedLoginAttempts: ma.FailedLoginAttempts,
		LastLoginAttempt:    unixToTimePtr(ma.LastLoginAttempt),
		TokenRevokedAt:      unixToTimePtr(ma.TokenRevokedAt),
		CreatedAt:           unixToTime(ma.CreatedAt),
		UpdatedAt:           unixToTime(ma.UpdatedAt),
	}
}
