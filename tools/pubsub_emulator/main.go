package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Creates the topic where apihub-query publishes the downloader jobs, and a subscription to consume them.
func main() {
	ctx := context.Background()

	host := flag.String("host", "localhost:8085", "address of the emulator")
	projectID := flag.String("project", "apihub-emulator", "emulator project")
	topic := flag.String("topic", "apihub-downloader-jobs", "topic of the downloader jobs (-ps-topic of apihub-query)")
	subscription := flag.String("subscription", "apihub-downloader-jobs", "subscription to the downloader jobs")
	ackDeadline := flag.Duration("ack-deadline", 10*time.Second, "ack deadline of the subscription")
	flag.Parse()

	os.Setenv("PUBSUB_EMULATOR_HOST", *host)

	log.Print("New client for project " + *projectID)
	client, err := pubsub.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatalf("pubsub.NewClient: %v", err)
	}
	defer client.Close()

	log.Print("Create Topic : " + *topic)
	if _, err = client.CreateTopic(ctx, *topic); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Fatalf("pubsub.CreateTopic: %v", err)
	}

	log.Print("Create Subscription : " + *subscription)
	if _, err = client.CreateSubscription(ctx, *subscription, pubsub.SubscriptionConfig{
		Topic:       client.Topic(*topic),
		AckDeadline: *ackDeadline,
	}); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Fatalf("CreateSubscription: %v", err)
	}

	log.Print("Done!")
}
