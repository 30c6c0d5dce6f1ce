package spans

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildStartTimesQuery(t *testing.T) {
	Convey("While building the span search query", t, func() {
		body, err := buildStartTimesQuery("nginx-web-server", "CalledComposePost", 1700000000000000)
		So(err, ShouldBeNil)

		var query map[string]interface{}
		So(json.Unmarshal([]byte(body), &query), ShouldBeNil)

		Convey("It should filter on service, operation and the strict lower bound", func() {
			filters := query["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
			So(len(filters), ShouldEqual, 3)

			service := filters[0].(map[string]interface{})["term"].(map[string]interface{})
			So(service["process.serviceName"], ShouldEqual, "nginx-web-server")

			operation := filters[1].(map[string]interface{})["term"].(map[string]interface{})
			So(operation["operationName"], ShouldEqual, "CalledComposePost")

			bound := filters[2].(map[string]interface{})["range"].(map[string]interface{})["startTime"].(map[string]interface{})
			So(bound["gt"], ShouldEqual, float64(1700000000000000))
		})

		Convey("It should sort ascending by start time", func() {
			sorts := query["sort"].([]interface{})
			order := sorts[0].(map[string]interface{})["startTime"].(map[string]interface{})
			So(order["order"], ShouldEqual, "asc")
		})
	})
}

func TestNewReaderValidation(t *testing.T) {
	Convey("An unknown span backend should be rejected as a configuration error", t, func() {
		previous := BackendFlag.Value()
		So(previous, ShouldEqual, "cassandra")

		// The factory validates before any connection is attempted, so a bogus
		// name fails fast even without a backend running.
		_, err := newReaderFor("mongodb")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "mongodb")
	})
}
