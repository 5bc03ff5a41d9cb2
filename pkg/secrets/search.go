package secrets

import "context"

// searchPathsState accumulates the two path lists of a paths-only search.
type searchPathsState struct {
	unlocked []ObjectPath
	locked   []ObjectPath
}

// searchState additionally accumulates the loaded item proxies, keyed by
// path because fan-out replies arrive in no particular order.
type searchState struct {
	unlockedPaths []ObjectPath
	lockedPaths   []ObjectPath
	items         map[ObjectPath]*Item
	loading       int
}

// SearchPaths searches all collections for items matching attrs and
// returns their paths without loading item proxies. Returns immediately;
// done (optional) runs on the dispatch goroutine at completion.
func (s *Service) SearchPaths(ctx context.Context, sc *Schema, attrs Attributes, done func(*Operation)) *Operation {
	op := s.newOperation(ctx, KindSearchPaths, &searchPathsState{}, done)
	s.postOp(op, func() { s.startSearchPaths(op, sc, attrs) })
	return op
}

func (s *Service) startSearchPaths(op *Operation, sc *Schema, attrs Attributes) {
	st := op.state.(*searchPathsState)
	if !s.checkAttributes(op, sc, attrs) {
		return
	}
	if op.cancelled() {
		op.finish()
		return
	}
	s.searchPathsStep(op, matchAttributes(sc, attrs), func(unlocked, locked []ObjectPath, err error) {
		if err != nil {
			op.fail(err)
		} else {
			st.unlocked = unlocked
			st.locked = locked
		}
		op.finish()
	})
}

// SearchPathsFinish extracts the matched path lists, unlocked then locked.
func (s *Service) SearchPathsFinish(op *Operation) (unlocked, locked []ObjectPath, err error) {
	st, ok := opState[*searchPathsState](op, KindSearchPaths)
	if !ok {
		return nil, nil, ErrWrongResultType
	}
	if err := op.takeError(); err != nil {
		return nil, nil, err
	}
	return st.unlocked, st.locked, nil
}

// Search searches all collections for items matching attrs and loads an
// Item proxy for every match, reusing live instances from the identity
// cache and fanning out concurrent loads for the rest. Returns
// immediately; done (optional) runs on the dispatch goroutine at
// completion.
func (s *Service) Search(ctx context.Context, sc *Schema, attrs Attributes, done func(*Operation)) *Operation {
	op := s.newOperation(ctx, KindSearch, &searchState{items: make(map[ObjectPath]*Item)}, done)
	s.postOp(op, func() { s.startSearch(op, sc, attrs) })
	return op
}

func (s *Service) startSearch(op *Operation, sc *Schema, attrs Attributes) {
	st := op.state.(*searchState)
	if !s.checkAttributes(op, sc, attrs) {
		return
	}
	if op.cancelled() {
		op.finish()
		return
	}
	s.searchPathsStep(op, matchAttributes(sc, attrs), func(unlocked, locked []ObjectPath, err error) {
		if err != nil {
			op.fail(err)
			op.finish()
			return
		}
		st.unlockedPaths = unlocked
		st.lockedPaths = locked
		for _, p := range unlocked {
			s.loadSearchItem(op, st, p)
		}
		for _, p := range locked {
			s.loadSearchItem(op, st, p)
		}
		// Nothing matched, or everything was already cached.
		if st.loading == 0 {
			op.finish()
		}
	})
}

// loadSearchItem resolves one matched path to a proxy. Cache hits settle
// synchronously; misses issue a concurrent load counted by st.loading.
func (s *Service) loadSearchItem(op *Operation, st *searchState, path ObjectPath) {
	if it := s.cache.item(path); it != nil {
		st.items[path] = it
		return
	}
	st.loading++
	invoke(s, "ItemProperties", func() (ItemInfo, error) {
		return s.transport.ItemProperties(op.ctx, path)
	}, func(info ItemInfo, err error) {
		st.loading--
		if err != nil {
			// A failed load does not abort its siblings; the error lands
			// in the operation's slot (last write wins) and the finish
			// hands back whatever did load.
			op.fail(callError("ItemProperties", path, err))
		} else {
			st.items[path] = s.cache.registerItem(path, newItem(path, info))
		}
		if st.loading == 0 {
			op.finish()
		}
	})
}

// searchPathsStep issues the initial search call as a sub-step.
func (s *Service) searchPathsStep(op *Operation, match Attributes, cont func(unlocked, locked []ObjectPath, err error)) {
	type reply struct {
		unlocked []ObjectPath
		locked   []ObjectPath
	}
	invoke(s, "SearchItems", func() (reply, error) {
		u, l, err := s.transport.SearchItems(op.ctx, match)
		return reply{u, l}, err
	}, func(r reply, err error) {
		if err != nil {
			cont(nil, nil, callError("SearchItems", NoObject, err))
			return
		}
		cont(r.unlocked, r.locked, nil)
	})
}

// SearchFinish extracts the loaded items partitioned by the original
// unlocked/locked path-list memberships, each list in its original order.
// Paths whose load failed are skipped; if any load failed the partial
// results are returned together with the last recorded error.
func (s *Service) SearchFinish(op *Operation) (unlocked, locked []*Item, err error) {
	st, ok := opState[*searchState](op, KindSearch)
	if !ok {
		return nil, nil, ErrWrongResultType
	}
	err = op.takeError()
	return buildItemList(st.unlockedPaths, st.items), buildItemList(st.lockedPaths, st.items), err
}

func buildItemList(paths []ObjectPath, items map[ObjectPath]*Item) []*Item {
	out := make([]*Item, 0, len(paths))
	for _, p := range paths {
		if it, ok := items[p]; ok {
			out = append(out, it)
		}
	}
	return out
}
