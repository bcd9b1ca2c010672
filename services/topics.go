package services

import (
	"fmt"
	"log"
	"math"

	"github.com/blavejr/studybuddy/models"
)

// topic labels are the first topicLabelLength characters of the chunk closest
// to each cluster centroid
const topicLabelLength = 100

// TopicExtractor clusters chunk embeddings and picks a representative excerpt
// per cluster as the topic label.
type TopicExtractor struct {
	embedder  *Embedder
	MaxTopics int
}

func NewTopicExtractor(embedder *Embedder, maxTopics int) *TopicExtractor {
	return &TopicExtractor{
		embedder:  embedder,
		MaxTopics: maxTopics,
	}
}

// Extract embeds the chunks, clusters the embeddings into
// min(MaxTopics, len(chunks)) groups and returns the topic labels together
// with the chunk embeddings so the caller can store them without re-encoding.
func (t *TopicExtractor) Extract(chunks []models.Chunk) ([]string, [][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := t.embedder.GenerateEmbeddings(texts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	nClusters := t.MaxTopics
	if len(chunks) < nClusters {
		nClusters = len(chunks)
	}

	clusters := kmeans(embeddings, nClusters)

	topics := make([]string, 0, len(clusters))
	seen := make(map[string]bool)
	for _, cluster := range clusters {
		if len(cluster.members) == 0 {
			continue
		}

		// representative chunk: member with maximum similarity to the centroid
		best := cluster.members[0]
		bestScore := -1.0
		for _, idx := range cluster.members {
			s := cosineSim(embeddings[idx], cluster.centroid)
			if s > bestScore {
				bestScore = s
				best = idx
			}
		}

		label := chunks[best].Text
		if len(label) > topicLabelLength {
			label = label[:topicLabelLength]
		}

		// degenerate documents can produce the same excerpt from several
		// clusters; keep each label once
		if seen[label] {
			continue
		}
		seen[label] = true
		topics = append(topics, label)
	}

	log.Printf("Extracted %d topics from %d chunks (%d clusters)", len(topics), len(chunks), nClusters)
	return topics, embeddings, nil
}

type cluster struct {
	centroid []float32
	members  []int
}

// kmeans partitions vecs into k clusters. Seeding is deterministic: the first
// vector starts, then the farthest vector from the chosen centroids is added
// until k are picked. Assignment uses cosine similarity.
func kmeans(vecs [][]float32, k int) []cluster {
	if len(vecs) == 0 {
		return nil
	}
	if k < 1 {
		k = 1
	}
	if k > len(vecs) {
		k = len(vecs)
	}

	centroids := make([][]float32, 0, k)
	centroids = append(centroids, vecs[0])
	for len(centroids) < k {
		bestIdx := 0
		bestDist := -1.0
		for i := range vecs {
			d := 1.0
			for _, c := range centroids {
				dist := 1.0 - cosineSim(vecs[i], c)
				if dist < d {
					d = dist
				}
			}
			if d > bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		centroids = append(centroids, vecs[bestIdx])
	}

	assign := make([]int, len(vecs))
	for i := range assign {
		assign[i] = -1
	}

	var clusters []cluster
	for iter := 0; iter < 10; iter++ {
		changed := false
		clusters = make([]cluster, k)
		for i := range clusters {
			clusters[i].centroid = centroids[i]
		}

		for i, vec := range vecs {
			best := 0
			bestScore := -1.0
			for c := 0; c < k; c++ {
				s := cosineSim(vec, centroids[c])
				if s > bestScore {
					bestScore = s
					best = c
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
			clusters[best].members = append(clusters[best].members, i)
		}

		for i := 0; i < k; i++ {
			if len(clusters[i].members) == 0 {
				continue
			}
			member := make([][]float32, 0, len(clusters[i].members))
			for _, idx := range clusters[i].members {
				member = append(member, vecs[idx])
			}
			if mean, ok := meanVector(member); ok {
				centroids[i] = mean
				clusters[i].centroid = mean
			}
		}

		if !changed {
			break
		}
	}

	return clusters
}

func meanVector(vecs [][]float32) ([]float32, bool) {
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, false
	}

	dim := len(vecs[0])
	sum := make([]float64, dim)
	for _, vec := range vecs {
		if len(vec) != dim {
			return nil, false
		}
		for i, v := range vec {
			sum[i] += float64(v)
		}
	}

	mean := make([]float32, dim)
	for i := range sum {
		mean[i] = float32(sum[i] / float64(len(vecs)))
	}
	return mean, true
}

func cosineSim(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
