// Package listsync implements the paged, appendable, optimistically mutable
// list state shared by the feed and profile views. It is a pure state
// machine: network fetching stays in the caller's tea.Cmd closures, and every
// response must present the generation token handed out when its request was
// issued. A response whose generation is no longer current is discarded,
// which is how mode/profile switches win over slow in-flight requests.
package listsync

// List owns one list of items fetched under a selector (a feed mode or a
// username). At most one of Loading/LoadingMore is true at a time.
type List[T any] struct {
	Selector    string
	Items       []T
	Page        int
	HasMore     bool
	Total       int
	Loading     bool // initial load in flight
	LoadingMore bool // append load in flight
	Err         string

	gen  uint64
	idOf func(T) int64
}

// New returns an empty list. idOf extracts the server-assigned identifier
// used by Remove.
func New[T any](idOf func(T) int64) List[T] {
	return List[T]{idOf: idOf}
}

// BeginLoad starts a page-1 fetch for selector and returns the generation
// token the eventual response must carry. An empty selector is a contract
// violation and returns 0 without touching state; ApplyLoad ignores token 0.
func (l *List[T]) BeginLoad(selector string) uint64 {
	if selector == "" {
		return 0
	}
	l.Selector = selector
	l.Loading = true
	l.LoadingMore = false
	l.Err = ""
	l.gen++
	return l.gen
}

// ApplyLoad resolves a load started by BeginLoad. Stale responses (token
// older than the latest issued) are dropped: the items already displayed
// belong to a newer request or will shortly. On success the list is replaced
// wholesale; on failure existing items stay and only Err changes.
func (l *List[T]) ApplyLoad(gen uint64, items []T, hasMore bool, total int, errMsg string) bool {
	if gen == 0 || gen != l.gen {
		return false
	}
	l.Loading = false
	if errMsg != "" {
		l.Err = errMsg
		return true
	}
	l.Items = items
	l.Page = 1
	l.HasMore = hasMore
	l.Total = total
	l.Err = ""
	return true
}

// BeginLoadMore starts a fetch of the next page under the current selector.
// It refuses while any load is in flight or when the server reported no
// further pages.
func (l *List[T]) BeginLoadMore() (page int, gen uint64, ok bool) {
	if !l.HasMore || l.Loading || l.LoadingMore {
		return 0, 0, false
	}
	l.LoadingMore = true
	l.Err = ""
	l.gen++
	return l.Page + 1, l.gen, true
}

// ApplyLoadMore resolves an append load. New items are concatenated after
// the existing ones in received order; the client never de-duplicates or
// re-sorts, the server order is authoritative.
func (l *List[T]) ApplyLoadMore(gen uint64, page int, items []T, hasMore bool, errMsg string) bool {
	if gen == 0 || gen != l.gen {
		return false
	}
	l.LoadingMore = false
	if errMsg != "" {
		l.Err = errMsg
		return true
	}
	l.Items = append(l.Items, items...)
	l.Page = page
	l.HasMore = hasMore
	l.Err = ""
	return true
}

// Prepend inserts a server-confirmed new item at the head of the list.
// Callers apply this only after the create call resolves, so there is
// nothing to roll back on failure.
func (l *List[T]) Prepend(item T) {
	l.Items = append([]T{item}, l.Items...)
}

// Remove deletes the item with the given identifier. Removing an absent
// identifier is a no-op, so a double-triggered delete stays harmless.
func (l *List[T]) Remove(id int64) bool {
	for i, item := range l.Items {
		if l.idOf(item) == id {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Reset discards the list state entirely. Used when the owning view unmounts
// or its selector goes away; in-flight responses are invalidated by the
// generation bump.
func (l *List[T]) Reset() {
	l.Selector = ""
	l.Items = nil
	l.Page = 0
	l.HasMore = false
	l.Total = 0
	l.Loading = false
	l.LoadingMore = false
	l.Err = ""
	l.gen++
}

// Busy reports whether any load is in flight.
func (l *List[T]) Busy() bool {
	return l.Loading || l.LoadingMore
}
