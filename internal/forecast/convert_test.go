package forecast

import "testing"

func TestRoutesFromHours(t *testing.T) {
	tests := []struct {
		name        string
		hours       float64
		hoursPerDay int
		want        *int32
	}{
		{"zero hours means no quota", 0, 8, nil},
		{"negative hours means no quota", -4, 8, nil},
		{"exact multiple", 16, 8, int32Ptr(2)},
		{"partial day rounds up", 17, 8, int32Ptr(3)},
		{"less than one day rounds up to one", 0.5, 8, int32Ptr(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoutesFromHours(tt.hours, tt.hoursPerDay)
			if !int32PtrEq(got, tt.want) {
				t.Errorf("RoutesFromHours(%v, %d) = %v, want %v", tt.hours, tt.hoursPerDay, fmtPtr(got), fmtPtr(tt.want))
			}
		})
	}
}

func TestDelta(t *testing.T) {
	if got := Delta(3, nil); got != nil {
		t.Errorf("expected nil delta without quota, got %d", *got)
	}
	if got := Delta(3, int32Ptr(3)); got == nil || *got != 0 {
		t.Errorf("expected delta 0, got %v", fmtPtr(got))
	}
	if got := Delta(1, int32Ptr(3)); got == nil || *got != -2 {
		t.Errorf("expected delta -2, got %v", fmtPtr(got))
	}
	if got := Delta(5, int32Ptr(3)); got == nil || *got != 2 {
		t.Errorf("expected delta 2, got %v", fmtPtr(got))
	}
}

func TestUtilization(t *testing.T) {
	if got := Utilization(3, 0); got != nil {
		t.Errorf("expected nil utilization with zero headcount, got %v", *got)
	}
	if got := Utilization(3, 4); got == nil || *got != 75.0 {
		t.Errorf("expected 75.0, got %v", got)
	}
	// 1/3 = 33.333...%，四舍五入保留一位小数
	if got := Utilization(1, 3); got == nil || *got != 33.3 {
		t.Errorf("expected 33.3, got %v", got)
	}
	if got := Utilization(2, 3); got == nil || *got != 66.7 {
		t.Errorf("expected 66.7, got %v", got)
	}
	if got := Utilization(4, 4); got == nil || *got != 100.0 {
		t.Errorf("expected 100.0, got %v", got)
	}
}

func int32Ptr(v int32) *int32 { return &v }

func int32PtrEq(a, b *int32) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtPtr(v *int32) any {
	if v == nil {
		return nil
	}
	return *v
}
