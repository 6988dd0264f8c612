package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawyer4u/portal/internal/core/domain"
)

const (
	accountCollection = "accounts"
	counterCollection = "counters"
	accountSequence   = "account_id"
)

// AccountRepository stores development backend accounts. Ids are numeric and
// drawn from a counter document so they match what the real backend issues.
type AccountRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		coll:     db.Collection(accountCollection),
		counters: db.Collection(counterCollection),
	}
}

// EnsureIndexes makes email unique.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type mongoAccount struct {
	ID                 int64  `bson:"_id"`
	Name               string `bson:"name"`
	Email              string `bson:"email"`
	Phone              string `bson:"phone,omitempty"`
	PasswordHash       string `bson:"password_hash"`
	Role               string `bson:"role"`
	Location           string `bson:"location,omitempty"`
	Bio                string `bson:"bio,omitempty"`
	VerificationStatus string `bson:"verification_status,omitempty"`
	CreatedAt          int64  `bson:"created_at"`
	UpdatedAt          int64  `bson:"updated_at"`
}

func (r *AccountRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": accountSequence},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next account id: %w", err)
	}
	return counter.Seq, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoAccount{
		ID:                 id,
		Name:               account.Name,
		Email:              account.Email,
		Phone:              account.Phone,
		PasswordHash:       account.PasswordHash,
		Role:               account.Role.String(),
		Location:           account.Location,
		Bio:                account.Bio,
		VerificationStatus: account.VerificationStatus,
		CreatedAt:          account.CreatedAt.Unix(),
		UpdatedAt:          account.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return doc.toDomain()
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toDomain()
}

func (r *AccountRepository) List(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role.String()
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	out := make([]domain.Account, 0, len(docs))
	for _, d := range docs {
		a, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *AccountRepository) UpdateVerification(ctx context.Context, id int64, status string) (*domain.Account, error) {
	var ma mongoAccount
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"verification_status": status, "updated_at": time.Now().UTC().Unix()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ma)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update verification: %w", err)
	}
	return ma.toDomain()
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.Account, error) {
	var ma mongoAccount
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"name":       update.Name,
			"phone":      update.Phone,
			"location":   update.Location,
			"bio":        update.Bio,
			"updated_at": time.Now().UTC().Unix(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ma)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return ma.toDomain()
}

func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

func (ma mongoAccount) toDomain() (*domain.Account, error) {
	role, err := domain.ParseRole(ma.Role)
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", ma.ID, err)
	}
	return &domain.Account{
		ID:                 ma.ID,
		Name:               ma.Name,
		Email:              ma.Email,
		Phone:              ma.Phone,
		PasswordHash:       ma.PasswordHash,
		Role:               role,
		Location:           ma.Location,
		Bio:                ma.Bio,
		VerificationStatus: ma.VerificationStatus,
		CreatedAt:          unixToTime(ma.CreatedAt),
		UpdatedAt:          unixToTime(ma.UpdatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
