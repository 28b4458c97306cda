package helpers

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/dweymouth/sonicbridge/sharedutil"
)

// SimilarSongsFallbackCount is how many random songs by the seed's
// album artists are requested when the native call comes up empty.
const SimilarSongsFallbackCount = 50

type NativeSimilarFn func(context.Context, *mediaprovider.Server, mediaprovider.SimilarSongsQuery) ([]*mediaprovider.Song, error)

type RandomSongsFn func(context.Context, *mediaprovider.Server, mediaprovider.RandomSongListQuery) (*mediaprovider.ListResponse[mediaprovider.Song], error)

// GetSimilarSongsWithFallback runs the similar songs chain:
//  1. the native similar call, as a best-effort probe whose error is dropped
//  2. its results minus the seed song, if any remain
//  3. otherwise up to 50 random songs by the seed's album artist(s), minus the seed
//  4. an error if the random fallback fails too
func GetSimilarSongsWithFallback(ctx context.Context, server *mediaprovider.Server, query mediaprovider.SimilarSongsQuery, native NativeSimilarFn, random RandomSongsFn) ([]*mediaprovider.Song, error) {
	notSeed := func(s *mediaprovider.Song) bool { return s != nil && s.ID != query.SongID }

	songs, err := native(ctx, server, query)
	if err != nil {
		if mediaprovider.IsAborted(err) {
			return nil, err
		}
		log.Debug().Err(err).Str("songId", query.SongID).Msg("native similar songs unavailable, falling back")
	} else if songs = sharedutil.FilterSlice(songs, notSeed); len(songs) > 0 {
		return songs, nil
	}

	resp, err := random(ctx, server, mediaprovider.RandomSongListQuery{
		Limit:          SimilarSongsFallbackCount,
		AlbumArtistIDs: query.AlbumArtistIDs,
	})
	if err != nil {
		return nil, mediaprovider.OpError("get similar songs", 0, err)
	}
	songs = sharedutil.FilterSlice(resp.Items, notSeed)
	log.Debug().Str("songId", query.SongID).Strs("fallbackIds", sharedutil.SongsToIDs(songs)).Msg("similar songs served from random fallback")
	return songs, nil
}
