// Package db looks up optional track metadata (artist/title/release/year)
// for source files. Lookups are disabled unless METADATA_DB_ENDPOINT is
// set; callers get an empty map back in that case.
package db

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/pkg/errors"

	"github.com/jsphweid/notetab/constants"
	"github.com/jsphweid/notetab/model"
)

const maxBatchKeys = 10

// Enabled reports whether a metadata endpoint is configured.
func Enabled() bool {
	return constants.GetMetadataEndpoint() != ""
}

// GetTrackMetadatas batch-fetches metadata keyed by filename. Filenames
// with no record are simply absent from the result.
func GetTrackMetadatas(filenames []string) (map[string]model.TrackMetadata, error) {
	res := make(map[string]model.TrackMetadata)
	if !Enabled() || len(filenames) == 0 {
		return res, nil
	}

	endpoint := constants.GetMetadataEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating dynamodb session")
	}
	client := dynamodb.New(sess)

	for start := 0; start < len(filenames); start += maxBatchKeys {
		end := start + maxBatchKeys
		if end > len(filenames) {
			end = len(filenames)
		}
		if err := fetchBatch(client, filenames[start:end], res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func fetchBatch(client *dynamodb.DynamoDB, filenames []string, res map[string]model.TrackMetadata) error {
	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(filename)},
		})
	}

	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			constants.GetMetadataTable(): {Keys: keys},
		},
	}
	out, err := client.BatchGetItem(input)
	if err != nil {
		return errors.Wrap(err, "dynamodb batch get")
	}

	for _, v := range out.Responses[constants.GetMetadataTable()] {
		var m model.TrackMetadata
		if v["Year"] != nil && v["Year"].N != nil {
			year, _ := strconv.ParseUint(*v["Year"].N, 10, 32)
			m.Year = uint(year)
		}
		if v["Artist"] != nil && v["Artist"].S != nil {
			m.Artist = *v["Artist"].S
		}
		if v["Title"] != nil && v["Title"].S != nil {
			m.Title = *v["Title"].S
		}
		if v["Release"] != nil && v["Release"].S != nil {
			m.Release = *v["Release"].S
		}
		res[*v["PK"].S] = m
	}
	return nil
}
