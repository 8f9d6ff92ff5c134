package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"smarthire/internal/database"
	"smarthire/internal/models"
	"smarthire/internal/utils"
)

const emailOTPCollection = "email_otp"

type OTPRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, otp *models.EmailOTP) (*models.EmailOTP, error)
	InvalidateUnused(ctx context.Context, userID primitive.ObjectID) (int64, error)
	FindUnused(ctx context.Context, userID primitive.ObjectID, otpCode string) (*models.EmailOTP, error)
	MarkAsUsed(ctx context.Context, otpID primitive.ObjectID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type otpRepository struct {
	collection *mongo.Collection
}

func NewOTPRepository(db database.Service) OTPRepository {
	return &otpRepository{collection: db.Database().Collection(emailOTPCollection)}
}

func (r *otpRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "is_used", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_unused_newest"),
	})
	if err != nil {
		return fmt.Errorf("failed to create email_otp index: %w", err)
	}
	return nil
}

func (r *otpRepository) Create(ctx context.Context, otp *models.EmailOTP) (*models.EmailOTP, error) {
	timer := utils.NewDBTimer("create", "otp")

	otp.ID = primitive.NewObjectID()
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, otp)
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to create otp: %w", err)
	}
	return otp, nil
}

// InvalidateUnused marks every unused code of the user as used.
func (r *otpRepository) InvalidateUnused(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	timer := utils.NewDBTimer("invalidateUnused", "otp")

	result, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_used": false},
		bson.M{"$set": bson.M{"is_used": true}},
	)
	timer.Done(err)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate otps: %w", err)
	}
	return result.ModifiedCount, nil
}

// FindUnused returns the newest unused code of the user that matches
// otpCode, expired or not. Callers check ExpiresAt.
func (r *otpRepository) FindUnused(ctx context.Context, userID primitive.ObjectID, otpCode string) (*models.EmailOTP, error) {
	timer := utils.NewDBTimer("findUnused", "otp")

	filter := bson.M{
		"user_id":  userID,
		"otp_code": otpCode,
		"is_used":  false,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var otp models.EmailOTP
	err := r.collection.FindOne(ctx, filter, opts).Decode(&otp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		timer.Done(nil)
		return nil, ErrNotFound
	}
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}
	return &otp, nil
}

// MarkAsUsed flips an unused code to used. ErrNotFound means the code was
// already consumed.
func (r *otpRepository) MarkAsUsed(ctx context.Context, otpID primitive.ObjectID) error {
	timer := utils.NewDBTimer("markAsUsed", "otp")

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": otpID, "is_used": false},
		bson.M{"$set": bson.M{"is_used": true}},
	)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to mark otp as used: %w", err)
	}
	if result.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	timer := utils.NewDBTimer("deleteExpired", "otp")

	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	timer.Done(err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", err)
	}
	return result.DeletedCount, nil
}
