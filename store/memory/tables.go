package memory

import (
	"context"

	"movimenta_server/models"
	"movimenta_server/store"
)

type tx struct {
	st       *state
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

func (p profileTable) Find(_ context.Context, userID string) (models.UserProfile, error) {
	i, ok := p.t.st.profileIdx[userID]
	if !ok {
		return models.UserProfile{}, store.ErrNotFound
	}
	return p.t.st.profiles[i], nil
}

func (p profileTable) All(context.Context) ([]models.UserProfile, error) {
	return append([]models.UserProfile(nil), p.t.st.profiles...), nil
}

func (p profileTable) Upsert(_ context.Context, profile models.UserProfile) error {
	if err := p.t.writable(); err != nil {
		return err
	}
	profile.Locked = false
	if i, ok := p.t.st.profileIdx[profile.UserID]; ok {
		p.t.st.profiles[i] = profile
		return nil
	}
	p.t.st.profileIdx[profile.UserID] = len(p.t.st.profiles)
	p.t.st.profiles = append(p.t.st.profiles, profile)
	return nil
}

type interactionLog struct{ t *tx }

func (l interactionLog) Append(_ context.Context, in models.Interaction) (models.Interaction, error) {
	if err := l.t.writable(); err != nil {
		return models.Interaction{}, err
	}
	l.t.st.nextSeq++
	in.Seq = l.t.st.nextSeq
	l.t.st.interactions = append(l.t.st.interactions, in)
	return in, nil
}

func (l interactionLog) All(context.Context) ([]models.Interaction, error) {
	return append([]models.Interaction(nil), l.t.st.interactions...), nil
}

func (l interactionLog) ByActor(_ context.Context, actorID string) ([]models.Interaction, error) {
	var out []models.Interaction
	for _, in := range l.t.st.interactions {
		if in.ActorID == actorID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (l interactionLog) DeleteWhere(_ context.Context, match func(models.Interaction) bool) (int, error) {
	if err := l.t.writable(); err != nil {
		return 0, err
	}
	kept := l.t.st.interactions[:0:0]
	for _, in := range l.t.st.interactions {
		if !match(in) {
			kept = append(kept, in)
		}
	}
	removed := len(l.t.st.interactions) - len(kept)
	l.t.st.interactions = kept
	return removed, nil
}

type pairingTable struct{ t *tx }

func (p pairingTable) Find(_ context.Context, id string) (models.Pairing, error) {
	i, ok := p.t.st.pairingIdx[id]
	if !ok {
		return models.Pairing{}, store.ErrNotFound
	}
	return p.t.st.pairings[i], nil
}

func (p pairingTable) All(context.Context) ([]models.Pairing, error) {
	return append([]models.Pairing(nil), p.t.st.pairings...), nil
}

func (p pairingTable) Upsert(_ context.Context, pairing models.Pairing) error {
	if err := p.t.writable(); err != nil {
		return err
	}
	if i, ok := p.t.st.pairingIdx[pairing.ID]; ok {
		p.t.st.pairings[i] = pairing
		return nil
	}
	p.t.st.pairingIdx[pairing.ID] = len(p.t.st.pairings)
	p.t.st.pairings = append(p.t.st.pairings, pairing)
	return nil
}

func (p pairingTable) DeleteWhere(_ context.Context, match func(models.Pairing) bool) (int, error) {
	if err := p.t.writable(); err != nil {
		return 0, err
	}
	kept := p.t.st.pairings[:0:0]
	for _, pairing := range p.t.st.pairings {
		if !match(pairing) {
			kept = append(kept, pairing)
		}
	}
	removed := len(p.t.st.pairings) - len(kept)
	p.t.st.pairings = kept
	p.t.st.reindexPairings()
	return removed, nil
}

type messageLog struct{ t *tx }

func (l messageLog) Append(_ context.Context, m models.Message) (models.Message, error) {
	if err := l.t.writable(); err != nil {
		return models.Message{}, err
	}
	l.t.st.nextSeq++
	m.Seq = l.t.st.nextSeq
	l.t.st.messages = append(l.t.st.messages, m)
	return m, nil
}

func (l messageLog) ByChat(_ context.Context, chatID string) ([]models.Message, error) {
	var out []models.Message
	for _, m := range l.t.st.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}
