// Command seed loads, dumps and bootstraps the clinic time table outside the
// HTTP server: import a YAML week, print the stored one, or mint a dev admin
// token.
package main

import (
	"context"
	"os"

	"clinicsite/config"
	"clinicsite/database"
	timetableRepo "clinicsite/database/repository/timetable"
	"clinicsite/services/timetable"
	"clinicsite/utils"
)

func main() {
	config.LoadConfig()
	if err := newRootCmd(openMongoService).Execute(); err != nil {
		os.Exit(1)
	}
}

// openMongoService wires the same Mongo store and Redis cache as the server,
// so a load is visible to the next API read.
func openMongoService(context.Context) (timetable.TimetableService, func(), error) {
	database.InitDB()
	utils.InitCache()

	var cache timetable.TimetableCache
	if c := utils.GetCacheClient(); c != nil {
		cache = timetable.NewRedisTimetableCache(c, config.AppConfig.TimetableCacheTTL)
	}
	svc, err := timetable.NewDefaultTimetableService(timetableRepo.NewMongoTimetableRepo(), cache, nil, utils.GetLogger())
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = database.MongoClient.Disconnect(ctx)
		if c := utils.GetCacheClient(); c != nil {
			_ = c.Close()
		}
	}
	return svc, closeFn, nil
}
