package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ForgeClient/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
)

// document stores Record.Data as a BSON sub-document so it can be queried,
// rather than as the raw JSON bytes.
type document struct {
	ID          string    `bson:"_id"`
	Kind        string    `bson:"kind"`
	Target      string    `bson:"target"`
	Data        bson.M    `bson:"data"`
	ContentHash string    `bson:"content_hash"`
	FetchedAt   time.Time `bson:"fetched_at"`
}

func toDocument(r domain.Record) (document, error) {
	var data bson.M
	if len(r.Data) > 0 {
		if err := bson.UnmarshalExtJSON(r.Data, false, &data); err != nil {
			return document{}, fmt.Errorf("convert record %s: %w", r.ID, err)
		}
	}
	return document{
		ID:          r.ID,
		Kind:        r.Kind,
		Target:      r.Target,
		Data:        data,
		ContentHash: r.ContentHash,
		FetchedAt:   r.FetchedAt,
	}, nil
}

func (d document) toRecord() (domain.Record, error) {
	data, err := json.Marshal(d.Data)
	if err != nil {
		return domain.Record{}, fmt.Errorf("convert document %s: %w", d.ID, err)
	}
	return domain.Record{
		ID:          d.ID,
		Kind:        d.Kind,
		Target:      d.Target,
		Data:        data,
		ContentHash: d.ContentHash,
		FetchedAt:   d.FetchedAt,
	}, nil
}
