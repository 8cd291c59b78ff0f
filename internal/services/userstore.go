package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rezoapp/rezo-backend/internal/database"
	"github.com/rezoapp/rezo-backend/internal/models"
	"github.com/rezoapp/rezo-backend/pkg/utils"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

const storeTimeout = 5 * time.Second

func usersCollection() *mongo.Collection {
	return database.DB.Collection("users")
}

func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// FindUserByEmail looks up a user by normalized email. Returns
// ErrUserNotFound when no account exists for the address.
func FindUserByEmail(email string) (*models.User, error) {
	ctx, cancel := storeContext()
	defer cancel()

	var user models.User
	err := usersCollection().FindOne(ctx, bson.M{"email": utils.NormalizeEmail(email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByID looks up a user by its document id.
func FindUserByID(id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := storeContext()
	defer cancel()

	var user models.User
	err := usersCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts an unverified account for a previously unseen
// email. The placeholder pseudo is replaced when the user first verifies.
func CreateUser(email string) (*models.User, error) {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}

	user := models.NewUser(email, fmt.Sprintf("user_%d", time.Now().Unix()))
	if err := validateUser(user); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext()
	defer cancel()

	res, err := usersCollection().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// SaveUser persists a mutated user. Invariants are re-checked before the
// write: the pseudo must pass moderation, the genre list is silently
// truncated to the cap, and the mood history keeps only the most recent
// entries.
func SaveUser(user *models.User) error {
	if err := validateUser(user); err != nil {
		return err
	}
	user.UpdatedAt = time.Now()

	ctx, cancel := storeContext()
	defer cancel()

	res, err := usersCollection().ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes an account. A second delete for the same id
// reports ErrUserNotFound.
func DeleteUser(id primitive.ObjectID) error {
	ctx, cancel := storeContext()
	defer cancel()

	res, err := usersCollection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SweepExpiredTokens clears credential material on every user whose
// magic link expired before now, and returns how many were affected.
// Safe to run repeatedly and concurrently with live verifications.
func SweepExpiredTokens(now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := usersCollection().UpdateMany(ctx,
		bson.M{"magic_link_expires": bson.M{"$lt": now}},
		bson.M{"$unset": bson.M{
			"magic_link_token":   1,
			"magic_link_expires": 1,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// validateUser enforces the document invariants shared by create and
// save paths.
func validateUser(user *models.User) error {
	if err := utils.ValidateEmail(user.Email); err != nil {
		return err
	}
	if err := utils.ValidatePseudo(user.Pseudo); err != nil {
		return err
	}
	if !IsCleanPseudo(user.Pseudo) {
		return &utils.ValidationError{Field: "pseudo", Message: "Pseudo must not contain personal information or inappropriate content"}
	}

	user.TruncatePreferredGenres()
	if n := len(user.Preferences.MoodHistory); n > models.MaxMoodHistory {
		user.Preferences.MoodHistory = user.Preferences.MoodHistory[n-models.MaxMoodHistory:]
	}

	// Token fields travel together: a digest without an expiry (or the
	// reverse) can never verify, so drop the orphan.
	if user.MagicLinkToken == "" || user.MagicLinkExpires == nil {
		user.ClearMagicLinkToken()
	}
	return nil
}
