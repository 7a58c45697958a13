// Command qauth-sessionctl inspects and clears persisted session
// credentials, for operators debugging resume behavior without touching the
// client process.
//
// Usage:
//
//	qauth-sessionctl -session session.token status
//	qauth-sessionctl -session session.token clear
//	qauth-sessionctl -redis-addr 127.0.0.1:6379 -redis-key qauth:session:123 status
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/luoxianli/qauth/session"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		sessionPath = flag.String("session", "session.token", "path of the session credential file")
		redisAddr   = flag.String("redis-addr", "", "redis address; when set, the credential is read from redis instead of a file")
		redisKey    = flag.String("redis-key", "qauth:session", "redis key holding the credential")
		timeout     = flag.Duration("timeout", 5*time.Second, "operation timeout")
	)
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd != "status" && cmd != "clear" {
		fmt.Fprintln(os.Stderr, "usage: qauth-sessionctl [flags] status|clear")
		os.Exit(2)
	}

	var store session.Store
	if *redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer client.Close()
		store = session.NewRedisStore(client, *redisKey, 0)
	} else {
		store = session.NewFileStore(*sessionPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch cmd {
	case "status":
		data, err := store.Load(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
			os.Exit(1)
		}
		if data == nil {
			fmt.Println("no session credential saved")
			return
		}
		fmt.Printf("session credential present (%d bytes)\n", len(data))

	case "clear":
		if err := store.Remove(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "remove failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("session credential cleared")
	}
}
