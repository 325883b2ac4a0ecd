package export

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"results-tracker/trackerctl/pkg/config"
)

// DocumentIterator yields one document's fields per call to Next. Next
// returns iterator.Done after the last document.
type DocumentIterator interface {
	Next() (map[string]any, error)
	Stop()
}

// Source streams the documents of a collection.
type Source interface {
	Documents(ctx context.Context, collection string) DocumentIterator
	Close() error
}

// FirestoreSource reads collections from Cloud Firestore.
type FirestoreSource struct {
	client *firestore.Client
}

// NewFirestoreSource authenticates with the service-account file and opens
// a client. Without a file, application default credentials are used. The project comes from cfg.ProjectID, or from the credentials
// when that is empty.
func NewFirestoreSource(ctx context.Context, cfg *config.ExportConfig) (*FirestoreSource, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client with %s: %w", cfg.CredentialsFile, err)
	}

	return &FirestoreSource{client: client}, nil
}

// Documents streams every document in collection, in the order the
// service returns them.
func (s *FirestoreSource) Documents(ctx context.Context, collection string) DocumentIterator {
	return &firestoreIterator{it: s.client.Collection(collection).Documents(ctx)}
}

// Close releases the client.
func (s *FirestoreSource) Close() error {
	return s.client.Close()
}

type firestoreIterator struct {
	it *firestore.DocumentIterator
}

func (i *firestoreIterator) Next() (map[string]any, error) {
	snap, err := i.it.Next()
	if err != nil {
		return nil, err
	}
	return snap.Data(), nil
}

func (i *firestoreIterator) Stop() {
	i.it.Stop()
}
