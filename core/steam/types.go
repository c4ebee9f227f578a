package steam

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// resultOK is the EResult value for success.
const resultOK = 1

// fileTypeMap is the collection child file type of a community map.
const fileTypeMap = 0

// fileID is a published file ID; the Web API encodes it as a JSON string.
type fileID uint64

// UnmarshalJSON accepts both quoted and bare numbers.
func (f *fileID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n uint64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid published file id %s", string(data))
		}
		*f = fileID(n)
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid published file id %q", s)
	}
	*f = fileID(n)
	return nil
}

type collectionDetailsResponse struct {
	Response struct {
		Result            int                 `json:"result"`
		CollectionDetails []collectionDetails `json:"collectiondetails"`
	} `json:"response"`
}

type collectionDetails struct {
	PublishedFileID fileID            `json:"publishedfileid"`
	Result          int               `json:"result"`
	Children        []collectionChild `json:"children"`
}

type collectionChild struct {
	PublishedFileID fileID `json:"publishedfileid"`
	SortOrder       int    `json:"sortorder"`
	FileType        int    `json:"filetype"`
}

type publishedFileDetailsResponse struct {
	Response struct {
		Result               int                    `json:"result"`
		PublishedFileDetails []publishedFileDetails `json:"publishedfiledetails"`
	} `json:"response"`
}

type publishedFileDetails struct {
	PublishedFileID fileID `json:"publishedfileid"`
	Result          int    `json:"result"`
	Title           string `json:"title"`
	Tags            []struct {
		Tag string `json:"tag"`
	} `json:"tags"`
}

// resultError reports a non-OK EResult inside a 200 response.
type resultError struct {
	id     uint64
	result int
}

func (e *resultError) Error() string {
	return fmt.Sprintf("published file %d returned result %d", e.id, e.result)
}
