package nuki

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const listResponse = `[
  {"deviceType": 4, "nukiId": 439041101, "name": "Front door", "firmwareVersion": "3.5.2",
   "lastKnownState": {"mode": 2, "state": 1, "stateName": "locked", "batteryCritical": false,
     "batteryChargeState": 84, "doorsensorState": 2, "doorsensorStateName": "door closed"}}
]`

const infoResponse = `{
  "bridgeType": 1,
  "versions": {"firmwareVersion": "1.22.1", "wifiFirmwareVersion": "1.2.0"},
  "uptime": 120,
  "scanResults": [{"deviceType": 4, "nukiId": 439041101, "name": "Front door", "rssi": -58, "paired": true}]
}`

func testBridgeClient(t *testing.T, srv *httptest.Server, hashed bool) *BridgeHTTPClient {
	host, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return CreateBridgeHTTPClient(host, uint(p), "secret", hashed, time.Second, zap.NewNop())
}

func TestBridgeList(t *testing.T) {

	require := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list" || r.URL.Query().Get("token") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(listResponse))
	}))
	defer srv.Close()

	list, err := testBridgeClient(t, srv, false).List(context.Background())
	require.NoError(err)
	require.Len(list, 1)
	require.Equal(int64(439041101), list[0].NukiId)
	require.Equal("Front door", list[0].Name)
	require.Equal("locked", list[0].LastKnownState["stateName"])
	require.Equal(float64(84), list[0].LastKnownState["batteryChargeState"])
}

func TestBridgeInfo(t *testing.T) {

	require := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(infoResponse))
	}))
	defer srv.Close()

	info, err := testBridgeClient(t, srv, false).Info(context.Background())
	require.NoError(err)
	require.Equal("1.2.0", info.Versions["wifiFirmwareVersion"])
	require.Len(info.ScanResults, 1)
	require.Equal(-58, info.ScanResults[0].Rssi)
}

func TestBridgeHashedToken(t *testing.T) {

	require := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		rnr, err := strconv.Atoi(q.Get("rnr"))
		if q.Get("token") != "" || err != nil || q.Get("hash") != HashToken(q.Get("ts"), rnr, "secret") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(listResponse))
	}))
	defer srv.Close()

	list, err := testBridgeClient(t, srv, true).List(context.Background())
	require.NoError(err)
	require.Len(list, 1)
}

func TestBridgeUnauthorizedIsNotRetried(t *testing.T) {

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testBridgeClient(t, srv, false).List(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBridgeRetriesServerErrors(t *testing.T) {

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(listResponse))
	}))
	defer srv.Close()

	list, err := testBridgeClient(t, srv, false).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHashToken(t *testing.T) {
	// sha256("2019-03-05T12:34:56Z,6342,secret")
	h := HashToken("2019-03-05T12:34:56Z", 6342, "secret")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("2019-03-05T12:34:56Z", 6342, "secret"))
	assert.NotEqual(t, h, HashToken("2019-03-05T12:34:56Z", 6343, "secret"))
}

func TestWebSmartlockLogs(t *testing.T) {

	require := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer webtoken" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/smartlock/log" || r.URL.Query().Get("limit") != "20" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`[{"id":"x","smartlockId":17618910285,"deviceType":4,"name":"Alice","action":2,"trigger":5,"state":0,"date":"2024-05-01T09:58:00.000Z","source":0}]`))
	}))
	defer srv.Close()

	client := CreateWebHTTPClient(srv.URL+"/", "webtoken", time.Second, zap.NewNop())
	logs, err := client.SmartlockLogs(context.Background(), 20)
	require.NoError(err)
	require.Len(logs, 1)
	require.Equal(int64(0x1a2b3c4d), logs[0].NukiId())
	require.True(logs[0].IsLockAction())
	require.Equal("Lock", LogActionName(logs[0].Action))
	require.Equal("App", LogTriggerName(logs[0].Trigger))
}

func TestCodeNames(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("Door opened", LogActionName(LOG_ACTION_DOOR_OPENED))
	assert.Equal("Unknown (77)", LogActionName(77))
	assert.Equal("Keypad code", LogSourceName(1))
	assert.Equal("Smart Lock 3.0", DeviceTypeName(DEVICE_TYPE_SMARTLOCK3))
	assert.Equal("1a2b3c4d", DeviceId(0x1a2b3c4d))
}
