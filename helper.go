package main

import log "github.com/sirupsen/logrus"

func setLogLevel(l string) {
	level, err := log.ParseLevel(l)
	if err != nil {
		log.Warnf("unknown log level %q, using info", l)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
