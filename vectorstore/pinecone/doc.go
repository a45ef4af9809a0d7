// Package pinecone implements vectorstore.Store against the Pinecone REST
// API: the control plane for index administration and the per-index data
// plane for record operations. The data-plane host is resolved from
// DescribeIndex on first use and cached.
//
// The store targets one serverless index with cosine similarity. Records
// live in namespaces keyed by tenant id; namespaces are created implicitly
// on first upsert, exactly as the service behaves.
package pinecone
