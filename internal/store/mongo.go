package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/rafaelmaranon/Availo/common/errors"
	"github.com/rafaelmaranon/Availo/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const dbTimeout = time.Second * 3

// MongoRepo is the durable Record Store, one collection per record kind.
// Change events are emitted after each acknowledged write, same contract as
// the memory store.
type MongoRepo struct {
	client   *mongo.Client
	database string
	notifier *Notifier
}

func NewMongoRepo(client *mongo.Client, database string) *MongoRepo {
	return &MongoRepo{
		client:   client,
		database: database,
		notifier: NewNotifier(),
	}
}

func (m *MongoRepo) PingContext(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepo) Notifier() *Notifier { return m.notifier }

func (m *MongoRepo) collection(kind string) *mongo.Collection {
	return m.client.Database(m.database).Collection(kind)
}

func (m *MongoRepo) InsertSeeking(ctx context.Context, req models.SeekingRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if _, err := m.collection(models.KindSeeking).InsertOne(ctx, req); err != nil {
		return "", fmt.Errorf("failed to insert seeking request: %w", err)
	}

	m.notifier.Publish(ChangeEvent{Kind: models.KindSeeking, ID: req.ID, Op: OpInsert})
	return req.ID, nil
}

func (m *MongoRepo) GetSeeking(ctx context.Context, id string) (models.SeekingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var req models.SeekingRequest
	err := m.collection(models.KindSeeking).FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.SeekingRequest{}, apperrors.NotFound(fmt.Sprintf("seeking request %s not found", id))
		}
		return models.SeekingRequest{}, fmt.Errorf("failed to get seeking request: %w", err)
	}
	return req, nil
}

func (m *MongoRepo) ListSeeking(ctx context.Context) ([]models.SeekingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cursor, err := m.collection(models.KindSeeking).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find seeking requests: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.SeekingRequest
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode seeking requests: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) PatchSeeking(ctx context.Context, id string, patch SeekingPatch) error {
	set := bson.M{}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if err := m.patch(ctx, models.KindSeeking, id, set); err != nil {
		return err
	}

	m.notifier.Publish(ChangeEvent{Kind: models.KindSeeking, ID: id, Op: OpPatch})
	return nil
}

func (m *MongoRepo) DeleteSeeking(ctx context.Context, id string) error {
	if err := m.delete(ctx, models.KindSeeking, id); err != nil {
		return err
	}
	m.notifier.Publish(ChangeEvent{Kind: models.KindSeeking, ID: id, Op: OpDelete})
	return nil
}

func (m *MongoRepo) InsertOffering(ctx context.Context, req models.OfferingRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if _, err := m.collection(models.KindOffering).InsertOne(ctx, req); err != nil {
		return "", fmt.Errorf("failed to insert offering request: %w", err)
	}

	m.notifier.Publish(ChangeEvent{Kind: models.KindOffering, ID: req.ID, Op: OpInsert})
	return req.ID, nil
}

func (m *MongoRepo) GetOffering(ctx context.Context, id string) (models.OfferingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var req models.OfferingRequest
	err := m.collection(models.KindOffering).FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.OfferingRequest{}, apperrors.NotFound(fmt.Sprintf("offering request %s not found", id))
		}
		return models.OfferingRequest{}, fmt.Errorf("failed to get offering request: %w", err)
	}
	return req, nil
}

func (m *MongoRepo) ListOffering(ctx context.Context) ([]models.OfferingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cursor, err := m.collection(models.KindOffering).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find offering requests: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.OfferingRequest
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode offering requests: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) PatchOffering(ctx context.Context, id string, patch OfferingPatch) error {
	set := bson.M{}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if err := m.patch(ctx, models.KindOffering, id, set); err != nil {
		return err
	}

	m.notifier.Publish(ChangeEvent{Kind: models.KindOffering, ID: id, Op: OpPatch})
	return nil
}

func (m *MongoRepo) DeleteOffering(ctx context.Context, id string) error {
	if err := m.delete(ctx, models.KindOffering, id); err != nil {
		return err
	}
	m.notifier.Publish(ChangeEvent{Kind: models.KindOffering, ID: id, Op: OpDelete})
	return nil
}

func (m *MongoRepo) InsertNegotiation(ctx context.Context, neg models.Negotiation) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if neg.ID == "" {
		neg.ID = uuid.New().String()
	}
	if _, err := m.collection(models.KindNegotiation).InsertOne(ctx, neg); err != nil {
		return "", fmt.Errorf("failed to insert negotiation: %w", err)
	}

	m.notifier.Publish(ChangeEvent{Kind: models.KindNegotiation, ID: neg.ID, Op: OpInsert})
	return neg.ID, nil
}

func (m *MongoRepo) GetNegotiation(ctx context.Context, id string) (models.Negotiation, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var neg models.Negotiation
	err := m.collection(models.KindNegotiation).FindOne(ctx, bson.M{"_id": id}).Decode(&neg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Negotiation{}, apperrors.NotFound(fmt.Sprintf("negotiation %s not found", id))
		}
		return models.Negotiation{}, fmt.Errorf("failed to get negotiation: %w", err)
	}
	return neg, nil
}

func (m *MongoRepo) ListNegotiationsBySeeker(ctx context.Context, seekerID string) ([]models.Negotiation, error) {
	return m.findNegotiations(ctx, bson.M{"seeker_id": seekerID})
}

func (m *MongoRepo) ListNegotiationsByOfferer(ctx context.Context, offererID string) ([]models.Negotiation, error) {
	return m.findNegotiations(ctx, bson.M{"offerer_id": offererID})
}

func (m *MongoRepo) ListNegotiationsByPair(ctx context.Context, seekerID, offererID string) ([]models.Negotiation, error) {
	return m.findNegotiations(ctx, bson.M{"seeker_id": seekerID, "offerer_id": offererID})
}

func (m *MongoRepo) findNegotiations(ctx context.Context, filter bson.M) ([]models.Negotiation, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cursor, err := m.collection(models.KindNegotiation).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find negotiations: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]models.Negotiation, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode negotiations: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) PatchNegotiation(ctx context.Context, id string, patch NegotiationPatch) error {
	set := bson.M{}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Messages != nil {
		set["messages"] = patch.Messages
	}
	if err := m.patch(ctx, models.KindNegotiation, id, set); err != nil {
		return err
	}

	m.notifier.Publish(ChangeEvent{Kind: models.KindNegotiation, ID: id, Op: OpPatch})
	return nil
}

func (m *MongoRepo) DeleteNegotiation(ctx context.Context, id string) error {
	if err := m.delete(ctx, models.KindNegotiation, id); err != nil {
		return err
	}
	m.notifier.Publish(ChangeEvent{Kind: models.KindNegotiation, ID: id, Op: OpDelete})
	return nil
}

func (m *MongoRepo) patch(ctx context.Context, kind, id string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if len(set) == 0 {
		return nil
	}

	result, err := m.collection(kind).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to patch %s record: %w", kind, err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound(fmt.Sprintf("%s record %s not found", kind, id))
	}
	return nil
}

func (m *MongoRepo) delete(ctx context.Context, kind, id string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := m.collection(kind).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", kind, err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound(fmt.Sprintf("%s record %s not found", kind, id))
	}
	return nil
}
