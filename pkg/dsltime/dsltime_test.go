package dsltime

import (
	"testing"

	"github.com/paiban/shiftsat/pkg/dslmodel"
)

func boolPtr(b bool) *bool { return &b }

func TestParseHHMM(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"午夜", "00:00", 0, false},
		{"正午", "12:00", 720, false},
		{"午夜前一分钟", "23:59", 1439, false},
		{"长度不对", "8:00", 0, true},
		{"缺少冒号", "0800", 0, true},
		{"小时越界", "24:00", 0, true},
		{"分钟越界", "12:60", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHHMM(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHHMM(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHHMM(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestShiftInterval(t *testing.T) {
	tests := []struct {
		name         string
		def          dslmodel.Shift
		wantStart    int
		wantEnd      int
		wantDuration int
	}{
		{
			name:         "日间班次使用声明的分钟数",
			def:          dslmodel.Shift{Start: "08:00", End: "16:00", Minutes: 480, IsWork: boolPtr(true)},
			wantStart:    480,
			wantEnd:      960,
			wantDuration: 480,
		},
		{
			name:         "分钟数为零时按起止时间推导",
			def:          dslmodel.Shift{Start: "08:00", End: "16:00", Minutes: 0, IsWork: boolPtr(true)},
			wantStart:    480,
			wantEnd:      960,
			wantDuration: 480,
		},
		{
			name:         "跨夜班次换算时长",
			def:          dslmodel.Shift{Start: "22:00", End: "06:00", Minutes: 0, IsWork: boolPtr(true)},
			wantStart:    1320,
			wantEnd:      360,
			wantDuration: 480,
		},
		{
			name:         "非工作班次分钟数为零时不推导",
			def:          dslmodel.Shift{Start: "00:00", End: "00:00", Minutes: 0, IsWork: boolPtr(false)},
			wantStart:    0,
			wantEnd:      0,
			wantDuration: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShiftInterval(tt.def)
			if err != nil {
				t.Fatalf("ShiftInterval() error = %v", err)
			}
			if got.StartMin != tt.wantStart || got.EndMin != tt.wantEnd || got.Duration != tt.wantDuration {
				t.Errorf("ShiftInterval() = %+v, want {%d %d %d}", got, tt.wantStart, tt.wantEnd, tt.wantDuration)
			}
		})
	}
}

func TestRestMinutesBetween(t *testing.T) {
	m := dslmodel.Shift{Start: "08:00", End: "16:00", Minutes: 480, IsWork: boolPtr(true)}
	overnight := dslmodel.Shift{Start: "22:00", End: "06:00", Minutes: 0, IsWork: boolPtr(true)}
	afternoon := dslmodel.Shift{Start: "14:00", End: "22:00", Minutes: 0, IsWork: boolPtr(true)}

	tests := []struct {
		name string
		a, b dslmodel.Shift
		want int
	}{
		{
			name: "同一天两班之间的正常间隔",
			a:    m, b: m,
			want: 1440 - 960 + 480,
		},
		{
			name: "跨夜班次后接下午班：22:00-06:00 后接 14:00 得到 480 分钟",
			a:    overnight, b: afternoon,
			want: 480,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RestMinutesBetween(tt.a, tt.b)
			if err != nil {
				t.Fatalf("RestMinutesBetween() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RestMinutesBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}
