// Package dynamo stores every table in DynamoDB. Items map one to one onto the
// model structs through their dynamodbav tags.
package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"movimenta_server/models"
	"movimenta_server/store"
	"movimenta_server/utils"
)

var _ store.Store = (*Store)(nil)

// sequenceName is the counter row shared by interactions and messages.
const sequenceName = "seq"

// Tables names the five DynamoDB tables.
type Tables struct {
	Profiles     string `yaml:"profiles" env:"DYNAMO_TABLE_PROFILES"`
	Interactions string `yaml:"interactions" env:"DYNAMO_TABLE_INTERACTIONS"`
	Pairings     string `yaml:"pairings" env:"DYNAMO_TABLE_PAIRINGS"`
	Messages     string `yaml:"messages" env:"DYNAMO_TABLE_MESSAGES"`
	Counters     string `yaml:"counters" env:"DYNAMO_TABLE_COUNTERS"`
}

// DefaultTables returns the standard table names.
func DefaultTables() Tables {
	return Tables{
		Profiles:     models.ProfilesTable,
		Interactions: models.InteractionsTable,
		Pairings:     models.PairingsTable,
		Messages:     models.MessagesTable,
		Counters:     models.CountersTable,
	}
}

func (t Tables) withDefaults() Tables {
	d := DefaultTables()
	if t.Profiles == "" {
		t.Profiles = d.Profiles
	}
	if t.Interactions == "" {
		t.Interactions = d.Interactions
	}
	if t.Pairings == "" {
		t.Pairings = d.Pairings
	}
	if t.Messages == "" {
		t.Messages = d.Messages
	}
	if t.Counters == "" {
		t.Counters = d.Counters
	}
	return t
}

// Store serializes units of work with a process-wide lock. DynamoDB writes are
// applied immediately, so callers perform every existence check before writing.
type Store struct {
	mu     sync.RWMutex
	svc    *Service
	tables Tables
}

// NewStore wraps client. Empty table names fall back to DefaultTables.
func NewStore(client API, tables Tables, log *slog.Logger) *Store {
	return &Store{svc: newService(client, log), tables: tables.withDefaults()}
}

// View runs fn under the read lock.
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{s: s, readOnly: true})
}

// RunInTransaction runs fn under the write lock.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&tx{s: s})
}

// Close is a no-op; the AWS client holds no resources that need releasing.
func (s *Store) Close() error { return nil }

type tx struct {
	s        *Store
	readOnly bool
}

func (t *tx) Profiles() store.ProfileTable       { return profileTable{t} }
func (t *tx) Interactions() store.InteractionLog { return interactionLog{t} }
func (t *tx) Pairings() store.PairingTable       { return pairingTable{t} }
func (t *tx) Messages() store.MessageLog         { return messageLog{t} }

func (t *tx) writable() error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	return nil
}

type profileTable struct{ t *tx }

func (p profileTable) Find(ctx context.Context, userID string) (models.UserProfile, error) {
	var out models.UserProfile
	err := p.t.s.svc.GetItem(ctx, p.t.s.tables.Profiles,
		map[string]types.AttributeValue{"userId": utils.StringAttr(userID)}, &out)
	return out, err
}

// All returns profiles ordered by user id, the only stable order a scan offers.
func (p profileTable) All(ctx context.Context) ([]models.UserProfile, error) {
	items, err := p.t.s.svc.ScanAll(ctx, p.t.s.tables.Profiles)
	if err != nil {
		return nil, err
	}
	var out []models.UserProfile
	if err := attributevalue.UnmarshalListOfMaps(items, &out); err != nil {
		return nil, fmt.Errorf("unmarshal profiles: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (p profileTable) Upsert(ctx context.Context, profile models.UserProfile) error {
	if err := p.t.writable(); err != nil {
		return err
	}
	profile.Locked = false
	return p.t.s.svc.PutItem(ctx, p.t.s.tables.Profiles, profile)
}

type interactionLog struct{ t *tx }

func (l interactionLog) Append(ctx context.Context, in models.Interaction) (models.Interaction, error) {
	if err := l.t.writable(); err != nil {
		return models.Interaction{}, err
	}
	seq, err := l.t.s.svc.NextSequence(ctx, l.t.s.tables.Counters, sequenceName)
	if err != nil {
		return models.Interaction{}, err
	}
	in.Seq = seq
	if err := l.t.s.svc.PutItem(ctx, l.t.s.tables.Interactions, in); err != nil {
		return models.Interaction{}, err
	}
	return in, nil
}

func (l interactionLog) All(ctx context.Context) ([]models.Interaction, error) {
	items, err := l.t.s.svc.ScanAll(ctx, l.t.s.tables.Interactions)
	if err != nil {
		return nil, err
	}
	return decodeInteractions(items)
}

func (l interactionLog) ByActor(ctx context.Context, actorID string) ([]models.Interaction, error) {
	items, err := l.t.s.svc.QueryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(l.t.s.tables.Interactions),
		KeyConditionExpression:    aws.String("actorId = :a"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":a": utils.StringAttr(actorID)},
		ScanIndexForward:          aws.Bool(true),
		ConsistentRead:            aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	return decodeInteractions(items)
}

func (l interactionLog) DeleteWhere(ctx context.Context, match func(models.Interaction) bool) (int, error) {
	if err := l.t.writable(); err != nil {
		return 0, err
	}
	all, err := l.All(ctx)
	if err != nil {
		return 0, err
	}
	var keys []map[string]types.AttributeValue
	for _, in := range all {
		if match(in) {
			keys = append(keys, map[string]types.AttributeValue{
				"actorId": utils.StringAttr(in.ActorID),
				"seq":     utils.NumberAttr(in.Seq),
			})
		}
	}
	if err := l.t.s.svc.BatchDelete(ctx, l.t.s.tables.Interactions, keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

func decodeInteractions(items []map[string]types.AttributeValue) ([]models.Interaction, error) {
	var out []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &out); err != nil {
		return nil, fmt.Errorf("unmarshal interactions: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

type pairingTable struct{ t *tx }

func (p pairingTable) Find(ctx context.Context, id string) (models.Pairing, error) {
	var out models.Pairing
	err := p.t.s.svc.GetItem(ctx, p.t.s.tables.Pairings,
		map[string]types.AttributeValue{"pairingId": utils.StringAttr(id)}, &out)
	return out, err
}

// All returns pairings by creation time, ties broken by id.
func (p pairingTable) All(ctx context.Context) ([]models.Pairing, error) {
	items, err := p.t.s.svc.ScanAll(ctx, p.t.s.tables.Pairings)
	if err != nil {
		return nil, err
	}
	var out []models.Pairing
	if err := attributevalue.UnmarshalListOfMaps(items, &out); err != nil {
		return nil, fmt.Errorf("unmarshal pairings: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (p pairingTable) Upsert(ctx context.Context, pairing models.Pairing) error {
	if err := p.t.writable(); err != nil {
		return err
	}
	return p.t.s.svc.PutItem(ctx, p.t.s.tables.Pairings, pairing)
}

func (p pairingTable) DeleteWhere(ctx context.Context, match func(models.Pairing) bool) (int, error) {
	if err := p.t.writable(); err != nil {
		return 0, err
	}
	all, err := p.All(ctx)
	if err != nil {
		return 0, err
	}
	var keys []map[string]types.AttributeValue
	for _, pairing := range all {
		if match(pairing) {
			keys = append(keys, map[string]types.AttributeValue{"pairingId": utils.StringAttr(pairing.ID)})
		}
	}
	if err := p.t.s.svc.BatchDelete(ctx, p.t.s.tables.Pairings, keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

type messageLog struct{ t *tx }

func (l messageLog) Append(ctx context.Context, m models.Message) (models.Message, error) {
	if err := l.t.writable(); err != nil {
		return models.Message{}, err
	}
	seq, err := l.t.s.svc.NextSequence(ctx, l.t.s.tables.Counters, sequenceName)
	if err != nil {
		return models.Message{}, err
	}
	m.Seq = seq
	if err := l.t.s.svc.PutItem(ctx, l.t.s.tables.Messages, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

func (l messageLog) ByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	items, err := l.t.s.svc.QueryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(l.t.s.tables.Messages),
		KeyConditionExpression:    aws.String("chatId = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":c": utils.StringAttr(chatID)},
		ScanIndexForward:          aws.Bool(true),
		ConsistentRead:            aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	var out []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &out); err != nil {
		return nil, fmt.Errorf("unmarshal messages: %w", err)
	}
	return out, nil
}
