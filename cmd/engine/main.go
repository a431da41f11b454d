// Command engine loads the object-class registry from configuration,
// optionally imports legacy definitions, and persists a registry snapshot.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/torvale/torvale-engine/internal/config"
	"github.com/torvale/torvale-engine/internal/confignode"
	"github.com/torvale/torvale-engine/internal/mapobjects"
	"github.com/torvale/torvale-engine/internal/repositories/registries"
)

const coreScope = "core"

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	registry := mapobjects.NewRegistry(nil)

	if err := loadObjectFiles(registry, cfg.Engine.DataDir); err != nil {
		log.Fatalf("Failed to load object definitions: %v", err)
	}

	if cfg.Engine.LegacyDataPath != "" {
		if err := importLegacyData(registry, cfg.Engine.LegacyDataPath, cfg.Engine.LegacyEntryCount); err != nil {
			log.Fatalf("Failed to import legacy data: %v", err)
		}
	}

	registry.AfterLoadFinalization()

	types := registry.KnownObjects()
	subtypes := 0
	for _, typeID := range types {
		ids, _ := registry.KnownSubObjects(typeID)
		subtypes += len(ids)
	}
	log.Printf("Registry loaded: %d object types, %d subtypes", len(types), subtypes)

	if cfg.Redis.Addr != "" {
		if err := persistSnapshot(registry, cfg); err != nil {
			log.Fatalf("Failed to persist snapshot: %v", err)
		}
	}
}

// loadObjectFiles walks the data directory and registers every object
// definition it finds. A broken file or entry is logged and skipped;
// loading continues with the rest.
func loadObjectFiles(registry *mapobjects.Registry, dataDir string) error {
	paths, err := filepath.Glob(filepath.Join(dataDir, "*.json"))
	if err != nil {
		return err
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}

		root, err := confignode.Parse(data)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}

		for _, name := range root.Keys() {
			entry := root.Get(name)
			registry.BeforeValidate(entry)
			if _, err := registry.LoadObject(coreScope, name, entry); err != nil {
				log.Printf("Skipping object '%s:%s' from %s: %v", coreScope, name, path, err)
			}
		}
	}
	return nil
}

// importLegacyData bulk-imports the legacy definition table and feeds the
// synthesized fragments through the generic loader
func importLegacyData(registry *mapobjects.Registry, path string, expected int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fragments, err := registry.LoadLegacyData(f, expected)
	if err != nil {
		return err
	}

	for _, fragment := range fragments {
		name := fragment.Get("name").String()
		if _, err := registry.LoadObjectAt("legacy", name, fragment, fragment.Get("index").Int32Or(0)); err != nil {
			log.Printf("Skipping legacy object '%s': %v", name, err)
		}
	}
	log.Printf("Imported %d legacy definitions", len(fragments))
	return nil
}

func persistSnapshot(registry *mapobjects.Registry, cfg *config.Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := registries.NewRedis(client)
	if err := repo.Save(ctx, cfg.Engine.SnapshotName, registry.Snapshot()); err != nil {
		return err
	}
	log.Printf("Persisted registry snapshot '%s'", cfg.Engine.SnapshotName)
	return nil
}
