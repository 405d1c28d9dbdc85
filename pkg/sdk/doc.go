// Package semsearch provides an embedded Go client for the casevault
// semantic search subsystem, backed by Redis with the search module.
//
// The client wires the ingestion, search, and analytics services directly
// over a Redis connection, without going through the HTTP API:
//
//	client, _ := semsearch.New(ctx,
//	    semsearch.WithRedis("localhost:6379", ""),
//	    semsearch.WithEmbeddingModel("text-embedding-3-small", 1536),
//	    semsearch.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	chunk, _ := client.Ingest(ctx, semsearch.ChunkInput{
//	    DocumentID: "doc-1", OwnerScope: "org-1",
//	    Content: "breach of fiduciary duty", ChunkIndex: 0,
//	})
//	results, _ := client.Search(ctx, semsearch.Query{
//	    OwnerScope: "org-1", Text: "fiduciary obligations",
//	})
//
// Successful searches are logged asynchronously; aggregate them with
// Client.Analytics.
package semsearch
