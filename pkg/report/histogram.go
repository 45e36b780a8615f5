package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// WriteHistogram renders hist as the basic-block activation histogram
// format spec §6 names: one "0x<bb-address>\t<count>" line per distinct
// block address, in ascending address order (the teacher's printWCHist
// iterates its std::map<uint32_t,uint32_t> in key order; Go maps don't, so
// the addresses are sorted explicitly here to match).
func WriteHistogram(w io.Writer, hist map[uint32]int64) error {
	addrs := make([]uint32, 0, len(hist))
	for addr := range hist {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	bw := bufio.NewWriter(w)
	for _, addr := range addrs {
		if _, err := fmt.Fprintf(bw, "0x%x\t%d\n", addr, hist[addr]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
