//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/insightforge/insightforge/pkg/utils"
)

// ONNXEmbedder runs a sentence-embedding model through ONNX Runtime. It
// requires CGO and the onnxruntime shared library. Inference is serialized
// over one pre-allocated tensor set; the cache absorbs repeat texts across
// watch-mode recomputes.
type ONNXEmbedder struct {
	session    *ort.AdvancedSession
	dimensions int
	maxTokens  int
	cache      *Cache
	tokenizer  Tokenizer
	tensors    tensorSet
	mu         sync.Mutex
}

// tensorSet holds the model input and output tensors, reused across Run()
// calls with the data rewritten in place.
type tensorSet struct {
	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	tokenTypeIDs  *ort.Tensor[int64]
	output        *ort.Tensor[float32]
}

func (ts *tensorSet) destroy() {
	if ts.inputIDs != nil {
		_ = ts.inputIDs.Destroy()
		ts.inputIDs = nil
	}
	if ts.attentionMask != nil {
		_ = ts.attentionMask.Destroy()
		ts.attentionMask = nil
	}
	if ts.tokenTypeIDs != nil {
		_ = ts.tokenTypeIDs.Destroy()
		ts.tokenTypeIDs = nil
	}
	if ts.output != nil {
		_ = ts.output.Destroy()
		ts.output = nil
	}
}

func newTensorSet(maxTokens, dimensions int) (tensorSet, error) {
	var ts tensorSet
	seqShape := ort.NewShape(1, int64(maxTokens))

	var err error
	if ts.inputIDs, err = ort.NewTensor(seqShape, make([]int64, maxTokens)); err == nil {
		if ts.attentionMask, err = ort.NewTensor(seqShape, make([]int64, maxTokens)); err == nil {
			if ts.tokenTypeIDs, err = ort.NewTensor(seqShape, make([]int64, maxTokens)); err == nil {
				ts.output, err = ort.NewTensor(ort.NewShape(1, int64(dimensions)), make([]float32, dimensions))
			}
		}
	}
	if err != nil {
		ts.destroy()
		return tensorSet{}, err
	}
	return ts, nil
}

// NewONNXEmbedder loads the model at modelPath and prepares a session with
// BERT-style inputs. The ONNX environment is initialized on first use.
func NewONNXEmbedder(modelPath string, dimensions, maxTokens, cacheSize int) (*ONNXEmbedder, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	tensors, err := newTensorSet(maxTokens, dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate tensors: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"output"},
		[]ort.ArbitraryTensor{tensors.inputIDs, tensors.attentionMask, tensors.tokenTypeIDs},
		[]ort.ArbitraryTensor{tensors.output},
		nil,
	)
	if err != nil {
		tensors.destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXEmbedder{
		session:    session,
		dimensions: dimensions,
		maxTokens:  maxTokens,
		cache:      NewCache(cacheSize),
		tokenizer:  &SimpleTokenizer{},
		tensors:    tensors,
	}, nil
}

// Embed returns the unit-length embedding for text, from cache when the text
// was seen before.
func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	inputIDs, attentionMask, tokenTypeIDs := e.tokenizer.Tokenize(text, e.maxTokens)
	copy(e.tensors.inputIDs.GetData(), inputIDs)
	copy(e.tensors.attentionMask.GetData(), attentionMask)
	copy(e.tensors.tokenTypeIDs.GetData(), tokenTypeIDs)

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	embedding := make([]float32, e.dimensions)
	copy(embedding, e.tensors.output.GetData()[:e.dimensions])
	utils.NormalizeL2(embedding)
	e.cache.Add(text, embedding)
	return embedding, nil
}

// EmbedBatch embeds a whole insight collection. Texts seen in a previous run
// come from the cache; inference runs only for new ones.
func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *ONNXEmbedder) Dimensions() int {
	return e.dimensions
}

// Close destroys the session and tensors.
func (e *ONNXEmbedder) Close() error {
	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	e.tensors.destroy()
	return err
}
