// Package debug provides assertions used throughout the code base.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package debug

import (
	"fmt"
	"strings"
)

func Assert(cond bool, a ...any) {
	if !cond {
		if len(a) > 0 {
			panic("assertion failed: " + _sprint(a...))
		}
		panic("assertion failed")
	}
}

func Assertf(cond bool, f string, a ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+f, a...))
	}
}

func AssertNoErr(err error) {
	if err != nil {
		panic(err)
	}
}

func _sprint(a ...any) string {
	var sb strings.Builder
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, v)
	}
	return sb.String()
}
