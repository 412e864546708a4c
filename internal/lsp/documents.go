package lsp

import "sync"

// DocumentStore holds open document contents keyed by URI, together with the
// analysis of the latest content.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

type document struct {
	content string
	result  *AnalysisResult
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*document)}
}

func (s *DocumentStore) Open(uri, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &document{content: content}
}

func (s *DocumentStore) Update(uri, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &document{content: content}
}

func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *DocumentStore) Get(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return "", false
	}
	return doc.content, true
}

// Result returns the analysis of a document, running it on first use after
// each change. It returns nil for unknown documents.
func (s *DocumentStore) Result(uri string) *AnalysisResult {
	s.mu.RLock()
	doc, ok := s.docs[uri]
	var result *AnalysisResult
	if ok {
		result = doc.result
	}
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if result != nil {
		return result
	}

	result = Analyze(uri, doc.content)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Only cache if the document was not replaced meanwhile.
	if current, ok := s.docs[uri]; ok && current == doc {
		doc.result = result
	}
	return result
}
