// Package nlog is a thin leveled-logging facade; the backend is logrus.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "15:04:05.000000",
		FullTimestamp:   true,
	})
	if lvl, err := logrus.ParseLevel(os.Getenv("DLOG_LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}
}

// SetLevel overrides the DLOG_LOG_LEVEL environment setting.
func SetLevel(lvl string) error {
	parsed, err := logrus.ParseLevel(lvl)
	if err != nil {
		return err
	}
	log.SetLevel(parsed)
	return nil
}

func Infoln(a ...any)    { log.Infoln(a...) }
func Warningln(a ...any) { log.Warnln(a...) }
func Errorln(a ...any)   { log.Errorln(a...) }

func Infof(f string, a ...any)    { log.Infof(f, a...) }
func Warningf(f string, a ...any) { log.Warnf(f, a...) }
func Errorf(f string, a ...any)   { log.Errorf(f, a...) }

// Depth variants annotate the entry with the caller `depth` frames up
// (logrus' own caller reporting always points here, hence the manual frame).
func InfoDepth(depth int, a ...any)    { withCaller(depth).Infoln(a...) }
func WarningDepth(depth int, a ...any) { withCaller(depth).Warnln(a...) }
func ErrorDepth(depth int, a ...any)   { withCaller(depth).Errorln(a...) }

func withCaller(depth int) *logrus.Entry {
	if _, file, line, ok := runtime.Caller(depth + 2); ok {
		var sb strings.Builder
		sb.WriteString(filepath.Base(file))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(line))
		return log.WithField("caller", sb.String())
	}
	return logrus.NewEntry(log)
}
