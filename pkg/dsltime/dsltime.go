// Package dsltime 提供 DSL 编译器所需的时间/班次算术：HH:MM 解析、
// 班次跨零点换算、以及跨日边界的休息时长计算（spec.md §4.3）。
package dsltime

import (
	"fmt"
	"strconv"

	"github.com/paiban/shiftsat/pkg/dslmodel"
)

const minutesPerDay = 1440

// ParseHHMM 将 "HH:MM" 解析为从零点起算的分钟数 60·HH + MM。
func ParseHHMM(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("dsltime: malformed HH:MM value %q", s)
	}
	hh, err := strconv.Atoi(s[0:2])
	if err != nil {
		return 0, fmt.Errorf("dsltime: malformed hour in %q: %w", s, err)
	}
	mm, err := strconv.Atoi(s[3:5])
	if err != nil {
		return 0, fmt.Errorf("dsltime: malformed minute in %q: %w", s, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("dsltime: HH:MM value %q out of range", s)
	}
	return hh*60 + mm, nil
}

// Interval 是一个班次换算出的起止分钟与时长。
type Interval struct {
	StartMin int
	EndMin   int
	Duration int
}

// ShiftInterval 返回班次定义换算出的 (start_min, end_min, duration_min)。
// 当 minutes 为零且 is_work 为真时，duration 由 start/end 推导：
// end >= start 时为 end-start，否则按跨夜换算为 (1440-start)+end。
func ShiftInterval(def dslmodel.Shift) (Interval, error) {
	start, err := ParseHHMM(def.Start)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseHHMM(def.End)
	if err != nil {
		return Interval{}, err
	}

	duration := def.Minutes
	if duration == 0 && def.EffectiveIsWork() {
		if end >= start {
			duration = end - start
		} else {
			duration = (minutesPerDay - start) + end
		}
	}
	return Interval{StartMin: start, EndMin: end, Duration: duration}, nil
}

// RestMinutesBetween 计算班次 a（第 d 天）结束到班次 b（第 d+1 天）开始之间
// 的分钟数。a 的结束落在绝对时间轴上：end_a >= start_a 时取 end_a，否则
// （跨夜）加上 1440。b 的起点固定为 1440+start_b。返回值可能为负——对于
// 很长的跨夜班次——调用方与非负阈值比较，因此负值总是意味着禁止。
func RestMinutesBetween(a, b dslmodel.Shift) (int, error) {
	ia, err := ShiftInterval(a)
	if err != nil {
		return 0, err
	}
	ib, err := ShiftInterval(b)
	if err != nil {
		return 0, err
	}

	aEndAbs := ia.EndMin
	if ia.EndMin < ia.StartMin {
		aEndAbs += minutesPerDay
	}
	bStartAbs := minutesPerDay + ib.StartMin

	return bStartAbs - aEndAbs, nil
}
