package main

const (
	ZAP_LISTEN_ADDR      string = "listenAddr"
	ZAP_REQUEST_ID       string = "requestId"
	ZAP_METHOD           string = "method"
	ZAP_PATH             string = "path"
	ZAP_STATUS           string = "status"
	ZAP_DURATION         string = "duration"
	ZAP_USER_ID          string = "userId"
	ZAP_EMAIL            string = "email"
	ZAP_CADASTRAL_NUMBER string = "cadastralNumber"
	ZAP_RESOLVER_URL     string = "resolverUrl"
	ZAP_CONSTRAINT       string = "constraint"
	ZAP_PAGE             string = "page"
	ZAP_SIZE             string = "size"
	ZAP_NUM_ROWS         string = "numRows"
)
