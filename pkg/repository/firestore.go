package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/interfaces"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	analysesCollection = "analyses"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Test connection by attempting to read from the collection.
	// This fails fast on a bad project ID or missing permissions.
	_, err = client.Collection(analysesCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		// Only fail if it's a real error (not just empty collection)
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// PutAnalysis saves an analysis record to Firestore
func (f *Firestore) PutAnalysis(ctx context.Context, record *model.AnalysisRecord) error {
	if record == nil {
		return goerr.New("analysis record is nil")
	}
	if err := record.Validate(); err != nil {
		return goerr.Wrap(err, "invalid analysis record")
	}

	_, err := f.client.Collection(analysesCollection).Doc(record.ID.String()).Set(ctx, record)
	if err != nil {
		return goerr.Wrap(err, "failed to save analysis to firestore")
	}

	return nil
}

// GetAnalysis retrieves an analysis record by ID
func (f *Firestore) GetAnalysis(ctx context.Context, id types.AnalysisID) (*model.AnalysisRecord, error) {
	if id == "" {
		return nil, goerr.New("analysis ID is empty")
	}

	doc, err := f.client.Collection(analysesCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrAnalysisNotFound, "failed to get analysis",
				goerr.V("analysis_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get analysis from firestore")
	}

	var record model.AnalysisRecord
	if err := doc.DataTo(&record); err != nil {
		return nil, goerr.Wrap(err, "failed to decode analysis")
	}

	return &record, nil
}

// ListAnalyses lists analysis records, newest first
func (f *Firestore) ListAnalyses(ctx context.Context, limit int) ([]*model.AnalysisRecord, error) {
	// Fetch without OrderBy to avoid requiring a composite index; sort in
	// memory instead. Field names in Firestore match Go struct field names.
	iter := f.client.Collection(analysesCollection).Documents(ctx)
	defer iter.Stop()

	records, err := collectAnalyses(iter)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

// ListAnalysesByIssue lists analysis records for one tracker issue, newest first
func (f *Firestore) ListAnalysesByIssue(ctx context.Context, key types.IssueKey) ([]*model.AnalysisRecord, error) {
	if key == "" {
		return nil, goerr.New("issue key is empty")
	}

	iter := f.client.Collection(analysesCollection).
		Where("IssueKey", "==", key.String()).
		Documents(ctx)
	defer iter.Stop()

	records, err := collectAnalyses(iter)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}

func collectAnalyses(iter *firestore.DocumentIterator) ([]*model.AnalysisRecord, error) {
	var records []*model.AnalysisRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate analyses")
		}

		var record model.AnalysisRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to decode analysis")
		}

		records = append(records, &record)
	}
	return records, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

var _ interfaces.Repository = (*Firestore)(nil) // Compile-time interface check
