//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

const (
	// FRONTPAGEJS - submit the form; poll the websocket; drop the results into the page
	FRONTPAGEJS = `
	"use strict";

	function runid() {
		return Math.random().toString(16).slice(2, 10);
	}

	function setmessages(infos, errors) {
		let m = document.getElementById('messages');
		let htm = '';
		(infos || []).forEach(function (x) { htm += '<div class="infobox">' + x + '</div>'; });
		(errors || []).forEach(function (x) { htm += '<div class="errorbox">' + x + '</div>'; });
		m.innerHTML = htm;
	}

	// innerHTML will not run scripts: the chart needs echarts loaded first and then its own inline script
	function injectwithscripts(el, htm) {
		el.innerHTML = htm;
		let scripts = Array.from(el.querySelectorAll('script'));
		let chain = Promise.resolve();
		scripts.forEach(function (old) {
			chain = chain.then(function () {
				return new Promise(function (resolve) {
					let s = document.createElement('script');
					if (old.src) {
						if (window.echarts && old.src.indexOf('echarts') !== -1) { resolve(); return; }
						s.src = old.src;
						s.onload = resolve;
						s.onerror = resolve;
					} else {
						s.text = old.text;
					}
					old.parentNode.replaceChild(s, old);
					if (!old.src) { resolve(); }
				});
			});
		});
		return chain;
	}

	function pollprogress(id) {
		let proto = (window.location.protocol === 'https:') ? 'wss://' : 'ws://';
		let ws = new WebSocket(proto + window.location.host + '/ws');
		let pd = document.getElementById('pollingdata');
		ws.onopen = function () { ws.send(JSON.stringify(id)); };
		ws.onmessage = function (evt) {
			let p = JSON.parse(evt.data);
			pd.innerHTML = p['value'];
			if (p['close'] === 'close') { ws.close(); }
		};
		return ws;
	}

	function showreport(r) {
		setmessages(r['infos'], r['errors']);
		['title', 'summary', 'sample', 'topichead', 'topics', 'documents'].forEach(function (k) {
			document.getElementById(k).innerHTML = r[k] || '';
		});
		injectwithscripts(document.getElementById('topicmap'), r['image'] || '');
	}

	document.getElementById('topicform').addEventListener('submit', function (e) {
		e.preventDefault();
		let id = runid();
		let fd = new FormData(this);
		let upload = document.getElementById('csvfile').files.length > 0;
		let url = (upload ? '/topics/upload/' : '/topics/exec/') + id;
		let btn = document.getElementById('runbutton');
		btn.disabled = true;
		let ws = pollprogress(id);
		fetch(url, {method: 'POST', body: fd})
			.then(function (resp) { return resp.json(); })
			.then(function (r) { showreport(r); })
			.catch(function (err) { setmessages([], [String(err)]); })
			.finally(function () {
				btn.disabled = false;
				if (ws.readyState <= 1) { ws.close(); }
			});
	});
`
)
