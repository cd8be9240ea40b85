package app

// CacheStatsLogger exposes cacheStatsLogger for tests.
var CacheStatsLogger = cacheStatsLogger
