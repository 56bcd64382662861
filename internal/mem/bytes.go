package mem

// DefaultBytesPageSize provides a default for Bytes.PageSize.
const DefaultBytesPageSize = 4096

// Bytes implements byte-oriented paged memory: the storage engine
// underneath the simulated heap's single contiguous address space.
// Pages may not necessarily be the same size, but usually are in
// practice. It pages at byte granularity, suited to C's sized
// loads/stores.
type Bytes struct {
	PagedCore
	pages [][]byte
}

// Size returns an address one position higher than the last position
// in the last page allocated so far.
func (m *Bytes) Size() uint {
	if i := len(m.bases) - 1; i >= 0 {
		return m.bases[i] + uint(len(m.pages[i]))
	}
	return 0
}

// LoadInto reads len(buf) bytes from memory starting at addr, zeroing
// any bytes that fall in never-written (unallocated) pages. Returns an
// error only if the read would exceed a configured Limit.
func (m *Bytes) LoadInto(addr uint, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	end := addr + uint(len(buf))
	if err := m.checkLimit(end, "load"); err != nil {
		return err
	}

	for i := range buf {
		buf[i] = 0
	}

	if m.PageSize == 0 || len(m.pages) == 0 {
		return nil
	}

	for pageID := m.findPage(addr); addr < end && pageID < len(m.bases); pageID++ {
		base := m.bases[pageID]
		if base > end {
			break
		}

		dst := buf
		a := addr
		if base > a {
			skip := int(base - a)
			if skip >= len(dst) {
				continue
			}
			dst = dst[skip:]
			a = base
		}

		page := m.pages[pageID]
		if skip := int(a) - int(base); skip > 0 {
			if skip >= len(page) {
				continue
			}
			page = page[skip:]
		}

		n := copy(dst, page)
		_ = n
	}
	return nil
}

// Stor writes values at addr, allocating pages as needed. Returns an
// error only if the write would exceed a configured Limit.
func (m *Bytes) Stor(addr uint, values ...byte) error {
	if len(values) == 0 {
		return nil
	}

	end := addr + uint(len(values))
	if err := m.checkLimit(end, "stor"); err != nil {
		return err
	}

	if m.PageSize == 0 {
		m.PageSize = DefaultBytesPageSize
	}

	for pageID := m.findPage(addr); addr < end; pageID++ {
		base, size, page := m.allocPage(pageID, addr)
		if skip := addr - base; skip > 0 {
			if skip >= size {
				continue
			}
			base += skip
			page = page[skip:]
		}
		n := copy(page, values)
		values = values[n:]
		addr += uint(n)
	}
	return nil
}

func (m *Bytes) allocPage(pageID int, addr uint) (base, size uint, page []byte) {
	base, size, isNew := m.PagedCore.allocPage(pageID, addr)
	if isNew {
		page = make([]byte, size)
		if pageID == len(m.bases) {
			m.pages = append(m.pages, page)
		} else {
			m.pages = append(m.pages, nil)
			copy(m.pages[pageID+1:], m.pages[pageID:])
			m.pages[pageID] = page
		}
	} else {
		page = m.pages[pageID]
	}
	return base, size, page
}
