package core

import "testing"

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                     string
		total, number            int
		wantNumber, wantNumPages int
		wantStart, wantEnd       int
		wantNext, wantPrev       bool
	}{
		{name: "empty", total: 0, number: 1, wantNumber: 1, wantNumPages: 1, wantStart: 0, wantEnd: 0},
		{name: "single short page", total: 3, number: 1, wantNumber: 1, wantNumPages: 1, wantStart: 0, wantEnd: 3},
		{name: "exactly one page", total: 10, number: 1, wantNumber: 1, wantNumPages: 1, wantStart: 0, wantEnd: 10},
		{name: "13 items page 1", total: 13, number: 1, wantNumber: 1, wantNumPages: 2, wantStart: 0, wantEnd: 10, wantNext: true},
		{name: "13 items page 2", total: 13, number: 2, wantNumber: 2, wantNumPages: 2, wantStart: 10, wantEnd: 13, wantPrev: true},
		{name: "number below range", total: 13, number: 0, wantNumber: 1, wantNumPages: 2, wantStart: 0, wantEnd: 10, wantNext: true},
		{name: "number above range clamps to last", total: 13, number: 99, wantNumber: 2, wantNumPages: 2, wantStart: 10, wantEnd: 13, wantPrev: true},
		{name: "middle page", total: 25, number: 2, wantNumber: 2, wantNumPages: 3, wantStart: 10, wantEnd: 20, wantNext: true, wantPrev: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, start, end := Paginate(tt.total, tt.number)
			if info.Number != tt.wantNumber || info.NumPages != tt.wantNumPages {
				t.Errorf("Paginate() info = %+v; want number %d, numPages %d", info, tt.wantNumber, tt.wantNumPages)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Paginate() window = [%d:%d]; want [%d:%d]", start, end, tt.wantStart, tt.wantEnd)
			}
			if info.HasNext != tt.wantNext || info.HasPrevious != tt.wantPrev {
				t.Errorf("Paginate() nav = next %v, prev %v; want next %v, prev %v",
					info.HasNext, info.HasPrevious, tt.wantNext, tt.wantPrev)
			}
			if info.Total != tt.total {
				t.Errorf("Paginate() total = %d; want %d", info.Total, tt.total)
			}
		})
	}
}
