package rules

import (
	"container/list"
	"sync"

	"github.com/expr-lang/expr/vm"
)

// programCache is a thread-safe LRU of compiled expr programs keyed by
// source text. Custom-expression rules often repeat across definitions, so
// recompiling them per Compile call is wasted work.
type programCache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	mu        sync.Mutex
}

type programEntry struct {
	source  string
	program *vm.Program
}

func newProgramCache(size int) *programCache {
	return &programCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

func (c *programCache) Get(source string) (*vm.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, exists := c.items[source]
	if !exists {
		return nil, false
	}
	c.evictList.MoveToFront(node)
	return node.Value.(*programEntry).program, true
}

func (c *programCache) Put(source string, program *vm.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, exists := c.items[source]; exists {
		c.evictList.MoveToFront(node)
		node.Value.(*programEntry).program = program
		return
	}

	node := c.evictList.PushFront(&programEntry{source: source, program: program})
	c.items[source] = node

	if c.evictList.Len() > c.size {
		oldest := c.evictList.Back()
		if oldest != nil {
			c.evictList.Remove(oldest)
			delete(c.items, oldest.Value.(*programEntry).source)
		}
	}
}

func (c *programCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}
